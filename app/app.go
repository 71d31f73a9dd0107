package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/candinya/rss-translate-layer/modules"
	"github.com/candinya/rss-translate-layer/modules/translate"
	"github.com/candinya/rss-translate-layer/modules/translate/cache"
	"github.com/candinya/rss-translate-layer/modules/translate/providers"
	"github.com/candinya/rss-translate-layer/types"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type app struct {
	cfg *types.Config

	l *zap.Logger

	fetcher    *modules.Fetcher
	selector   *modules.Selector
	translator *translate.Translator

	e *echo.Echo
}

func Start(cfg *types.Config) error {
	a := app{
		cfg: cfg,
	}

	var err error

	// Initialize logger
	if cfg.System.Debug {
		a.l, err = zap.NewDevelopment()
	} else {
		a.l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer a.l.Sync() // Ignore errors

	// Initialize translation cache
	store, err := cache.NewStore(&cfg.Cache, a.l)
	if err != nil {
		return fmt.Errorf("failed to initialize translation cache: %w", err)
	}
	translationCache := cache.New(store, a.l)
	defer translationCache.Close()

	// Initialize translators
	primary, err := providers.NewTranslator(translate.Primary, &cfg.Translate, cfg.System.RequestTimeout, a.l)
	if err != nil {
		return fmt.Errorf("failed to initialize primary translator: %w", err)
	}
	fallback, err := providers.NewTranslator(translate.Fallback, &cfg.Translate, cfg.System.RequestTimeout, a.l)
	if err != nil {
		return fmt.Errorf("failed to initialize fallback translator: %w", err)
	}
	if fallback == nil {
		a.l.Info("fallback translator not configured")
	}
	a.translator = translate.NewTranslator(primary, fallback, translationCache, a.l)

	// Initialize override rules and fetcher
	a.selector = modules.NewSelector(&cfg.Overrides, a.l)
	a.fetcher = modules.NewFetcher(cfg.System.RequestTimeout, cfg.System.UserAgent, a.l)

	a.setupEcho()

	// Serve until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		a.l.Info("start listening", zap.String("listen", cfg.System.Listen))
		if err := a.e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.l.Info("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return a.e.Shutdown(shutdownCtx)
}

func (a *app) setupEcho() {
	// Initialize echo
	a.e = echo.New()
	a.e.HideBanner = true

	// Set logger
	a.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))

	// Add panic recover
	a.e.Use(middleware.Recover())

	// Apply health check route (root)
	a.e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "RSS Translate Layer is running")
	})

	// Apply main route
	a.e.GET("/feed", a.process)
}
