package app

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/candinya/rss-translate-layer/modules"
	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	missingURLMessage    = "Please provide a 'url' query parameter."
	internalErrorMessage = "An internal error occurred while processing the feed."
)

func (a *app) process(c echo.Context) (err error) {
	// Unexpected failures never leak details to the caller
	defer func() {
		if r := recover(); r != nil {
			a.l.Error("panic while processing feed", zap.Any("panic", r), zap.Stack("stack"))
			err = c.String(http.StatusInternalServerError, internalErrorMessage)
		}
	}()

	feedURL := c.QueryParam("url")
	if feedURL == "" {
		return c.String(http.StatusBadRequest, missingURLMessage)
	}

	targetLang := strings.ToUpper(cmp.Or(c.QueryParam("lang"), a.cfg.Translate.DefaultLang))

	a.l.Debug("process feed", zap.String("url", feedURL), zap.String("lang", targetLang))

	// Get data from source
	ctx := c.Request().Context()
	src, err := a.fetcher.Fetch(ctx, feedURL)
	if errors.Is(err, modules.ErrMalformedFeed) {
		a.l.Info("source is not a well-formed feed", zap.String("url", feedURL), zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("The provided URL does not point to a well-formed feed. Error: %v", err))
	}
	if err != nil {
		a.l.Error("failed to fetch feed", zap.String("url", feedURL), zap.Error(err))
		return c.String(http.StatusInternalServerError, internalErrorMessage)
	}

	feed := a.translateFeed(ctx, src, targetLang)

	// Re-construct to target format
	format := c.QueryParam("format")

	a.l.Debug("start re-construct format", zap.String("format", format))

	result, contentType, err := render(feed, src.Language, format)
	if err != nil {
		a.l.Error("failed to format feed", zap.Error(err))
		return c.String(http.StatusInternalServerError, internalErrorMessage)
	}

	return c.Blob(http.StatusOK, contentType, []byte(result))
}

func render(feed *feeds.Feed, language string, format string) (string, string, error) {
	switch format {
	case "atom":
		result, err := feed.ToAtom()
		return result, "application/atom+xml", err
	case "json":
		result, err := feed.ToJSON()
		return result, "application/json", err
	default:
		// RSS 2.0; feeds.Feed has no language, so set it on the channel
		rss := (&feeds.Rss{Feed: feed}).RssFeed()
		rss.Language = language
		result, err := feeds.ToXML(rss)
		return result, "application/rss+xml", err
	}
}
