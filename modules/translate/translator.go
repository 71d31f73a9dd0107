package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/candinya/rss-translate-layer/modules/translate/cache"
	"go.uber.org/zap"
)

// Translator runs the truncate, cache and provider chain for one text field.
type Translator struct {
	l *zap.Logger

	cache     *cache.Cache
	providers map[ProviderID]Provider
}

// NewTranslator wires the provider slots. fallback may be nil.
func NewTranslator(primary Provider, fallback Provider, c *cache.Cache, l *zap.Logger) *Translator {
	providers := map[ProviderID]Provider{
		Primary: primary,
	}
	if fallback != nil {
		providers[Fallback] = fallback
	}

	return &Translator{
		l:         l,
		cache:     c,
		providers: providers,
	}
}

// HasFallback reports whether a fallback provider is configured.
func (t *Translator) HasFallback() bool {
	_, ok := t.providers[Fallback]
	return ok
}

// Translate never fails: when no provider succeeds the original text is
// returned. forceFallback skips the primary provider when a fallback exists.
func (t *Translator) Translate(ctx context.Context, text string, lang string, forceFallback bool) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	excerpt := Truncate(text)

	if forceFallback {
		if t.HasFallback() {
			translated, err := t.attempt(ctx, Fallback, excerpt, lang)
			if err != nil {
				t.l.Warn("forced fallback translation failed, keep original", zap.String("lang", lang), zap.Error(err))
				return text
			}
			return translated
		}

		t.l.Debug("fallback forced but not configured, use primary")
	}

	translated, err := t.attempt(ctx, Primary, excerpt, lang)
	if err == nil {
		return translated
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		t.l.Warn("primary translation failed", zap.String("lang", lang), zap.Error(err))
	} else {
		t.l.Error("unexpected error during primary translation", zap.String("lang", lang), zap.Error(err))
	}

	if !t.HasFallback() {
		return text
	}

	translated, err = t.attempt(ctx, Fallback, excerpt, lang)
	if err != nil {
		t.l.Warn("fallback translation failed, keep original", zap.String("lang", lang), zap.Error(err))
		return text
	}

	return translated
}

func (t *Translator) attempt(ctx context.Context, id ProviderID, excerpt string, lang string) (string, error) {
	provider := t.providers[id]

	key := cache.Key{
		Text:     excerpt,
		Lang:     lang,
		Provider: id.String(),
	}

	return t.cache.GetOrCompute(ctx, key, func(ctx context.Context) (translated string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s provider panic: %v", id, r)
			}
		}()

		t.l.Debug("send to provider", zap.Stringer("provider", id), zap.String("lang", lang))
		return provider.Translate(ctx, excerpt, lang)
	})
}
