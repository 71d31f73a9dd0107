package translate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/candinya/rss-translate-layer/modules/translate/cache"
	"go.uber.org/zap"
)

// fakeProvider prefixes text with its tag, or fails with err.
type fakeProvider struct {
	tag   string
	err   error
	panic bool
	calls int32
	texts []string
}

func (p *fakeProvider) Translate(_ context.Context, text string, lang string) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	p.texts = append(p.texts, text)
	if p.panic {
		panic("boom")
	}
	if p.err != nil {
		return "", p.err
	}
	return p.tag + "[" + lang + "]:" + text, nil
}

func newTestTranslator(t *testing.T, primary, fallback *fakeProvider) *Translator {
	t.Helper()

	store, err := cache.NewSQLiteStore(t.TempDir(), 1<<20, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open cache store: %v", err)
	}
	c := cache.New(store, zap.NewNop())
	t.Cleanup(func() { c.Close() })

	if fallback == nil {
		return NewTranslator(primary, nil, c, zap.NewNop())
	}
	return NewTranslator(primary, fallback, c, zap.NewNop())
}

var errQuota = &ProviderError{Provider: "test", StatusCode: 456, Err: errors.New("quota exceeded")}

func TestTranslateBlankSkipsProviders(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	tr := newTestTranslator(t, primary, nil)

	for _, text := range []string{"", "  ", "\n"} {
		if got := tr.Translate(context.Background(), text, "DE", false); got != text {
			t.Errorf("Expected %q unchanged, got %q", text, got)
		}
	}
	if primary.calls != 0 {
		t.Errorf("Expected no provider calls, got %d", primary.calls)
	}
}

func TestTranslateUsesPrimary(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	fallback := &fakeProvider{tag: "F"}
	tr := newTestTranslator(t, primary, fallback)

	if got := tr.Translate(context.Background(), "Hello", "DE", false); got != "P[DE]:Hello" {
		t.Errorf("Expected primary translation, got %q", got)
	}
	if fallback.calls != 0 {
		t.Errorf("Expected fallback unused, got %d calls", fallback.calls)
	}
}

func TestTranslateSendsExcerpt(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	tr := newTestTranslator(t, primary, nil)

	text := "One. Two. Three. Four."
	tr.Translate(context.Background(), text, "DE", false)

	if len(primary.texts) != 1 || primary.texts[0] != "One. Two."+TruncationMarker {
		t.Errorf("Expected truncated excerpt sent once, got %v", primary.texts)
	}
}

func TestTranslateIsCached(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	tr := newTestTranslator(t, primary, nil)

	first := tr.Translate(context.Background(), "Hello", "DE", false)
	second := tr.Translate(context.Background(), "Hello", "DE", false)

	if first != second {
		t.Errorf("Expected identical output, got %q and %q", first, second)
	}
	if primary.calls != 1 {
		t.Errorf("Expected one provider call, got %d", primary.calls)
	}

	tr.Translate(context.Background(), "Hello", "FR", false)
	if primary.calls != 2 {
		t.Errorf("Expected a new call for another language, got %d", primary.calls)
	}
}

func TestTranslateFallsBackOnProviderError(t *testing.T) {
	primary := &fakeProvider{tag: "P", err: errQuota}
	fallback := &fakeProvider{tag: "F"}
	tr := newTestTranslator(t, primary, fallback)

	text := "A. B. C."
	got := tr.Translate(context.Background(), text, "DE", false)

	expected := "F[DE]:" + Truncate(text)
	if got != expected {
		t.Errorf("Expected fallback result %q, got %q", expected, got)
	}
}

func TestTranslateFallsBackOnUnexpectedError(t *testing.T) {
	for name, primary := range map[string]*fakeProvider{
		"plain error": {tag: "P", err: errors.New("something odd")},
		"panic":       {tag: "P", panic: true},
	} {
		t.Run(name, func(t *testing.T) {
			fallback := &fakeProvider{tag: "F"}
			tr := newTestTranslator(t, primary, fallback)

			if got := tr.Translate(context.Background(), "Hello", "DE", false); got != "F[DE]:Hello" {
				t.Errorf("Expected fallback result, got %q", got)
			}
		})
	}
}

func TestTranslateBothFailReturnsOriginal(t *testing.T) {
	primary := &fakeProvider{tag: "P", err: errQuota}
	fallback := &fakeProvider{tag: "F", err: &ProviderError{Provider: "test", StatusCode: 401, Err: errors.New("denied")}}
	tr := newTestTranslator(t, primary, fallback)

	text := strings.Repeat("long text ", 100)
	if got := tr.Translate(context.Background(), text, "DE", false); got != text {
		t.Errorf("Expected original text, got %q", got)
	}
}

func TestTranslatePrimaryFailsWithoutFallback(t *testing.T) {
	primary := &fakeProvider{tag: "P", err: errQuota}
	tr := newTestTranslator(t, primary, nil)

	if got := tr.Translate(context.Background(), "Hello", "DE", false); got != "Hello" {
		t.Errorf("Expected original text, got %q", got)
	}
}

func TestTranslateForcedFallback(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	fallback := &fakeProvider{tag: "F"}
	tr := newTestTranslator(t, primary, fallback)

	if got := tr.Translate(context.Background(), "Hello", "DE", true); got != "F[DE]:Hello" {
		t.Errorf("Expected fallback result, got %q", got)
	}
	if primary.calls != 0 {
		t.Errorf("Expected primary to be bypassed, got %d calls", primary.calls)
	}
}

func TestTranslateForcedFallbackFailureKeepsOriginal(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	fallback := &fakeProvider{tag: "F", err: errQuota}
	tr := newTestTranslator(t, primary, fallback)

	if got := tr.Translate(context.Background(), "Hello", "DE", true); got != "Hello" {
		t.Errorf("Expected original text, got %q", got)
	}
	if primary.calls != 0 {
		t.Errorf("Expected primary to be bypassed, got %d calls", primary.calls)
	}
}

func TestTranslateForcedWithoutFallbackUsesPrimary(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	tr := newTestTranslator(t, primary, nil)

	if got := tr.Translate(context.Background(), "Hello", "DE", true); got != "P[DE]:Hello" {
		t.Errorf("Expected primary result, got %q", got)
	}
}

func TestTranslateCachePartitionedByProvider(t *testing.T) {
	primary := &fakeProvider{tag: "P"}
	fallback := &fakeProvider{tag: "F"}
	tr := newTestTranslator(t, primary, fallback)

	normal := tr.Translate(context.Background(), "Hello", "DE", false)
	forced := tr.Translate(context.Background(), "Hello", "DE", true)

	if normal == forced {
		t.Errorf("Expected provider-specific results, both were %q", normal)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("Expected one call per provider, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestProviderIDString(t *testing.T) {
	if Primary.String() != "primary" || Fallback.String() != "fallback" {
		t.Errorf("Unexpected names: %s, %s", Primary, Fallback)
	}
}
