package modules

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/candinya/rss-translate-layer/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Selector decides once per feed whether its fields must skip the primary
// provider. Rules are fixed at construction.
type Selector struct {
	l *zap.Logger

	titles []string
	hosts  []string
}

func NewSelector(cfg *types.ConfigOverrides, l *zap.Logger) *Selector {
	return &Selector{
		l:      l,
		titles: foldAll(cfg.Titles),
		hosts:  foldAll(cfg.Hosts),
	}
}

// ShouldForceFallback never fails; evaluation errors count as no match.
func (s *Selector) ShouldForceFallback(feed *types.FeedDocument) (force bool) {
	defer func() {
		if r := recover(); r != nil {
			s.l.Warn("override rule evaluation failed", zap.Any("panic", r))
			force = false
		}
	}()

	if feed == nil {
		return false
	}

	if pattern, ok := s.matchTitle(feed.Title); ok {
		s.l.Info("feed title matches override, force fallback", zap.String("title", feed.Title), zap.String("pattern", pattern))
		return true
	}

	pattern, ok, err := s.matchHost(feed.Link)
	if err != nil {
		s.l.Warn("failed to evaluate host override", zap.String("link", feed.Link), zap.Error(err))
		return false
	}
	if ok {
		s.l.Info("feed link matches override, force fallback", zap.String("link", feed.Link), zap.String("pattern", pattern))
		return true
	}

	return false
}

func (s *Selector) matchTitle(title string) (string, bool) {
	if len(s.titles) == 0 {
		return "", false
	}

	folded := fold(StripHTML(title))
	if folded == "" {
		return "", false
	}

	for _, pattern := range s.titles {
		if strings.Contains(folded, pattern) {
			return pattern, true
		}
	}

	return "", false
}

func (s *Selector) matchHost(link string) (string, bool, error) {
	if len(s.hosts) == 0 || strings.TrimSpace(link) == "" {
		return "", false, nil
	}

	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse link: %w", err)
	}

	host := fold(parsed.Hostname())
	raw := fold(strings.TrimSpace(link))

	// Containment covers exact host and exact link matches
	for _, pattern := range s.hosts {
		if strings.Contains(raw, pattern) || (host != "" && strings.Contains(host, pattern)) {
			return pattern, true, nil
		}
	}

	return "", false, nil
}

func fold(s string) string {
	// Casers keep state, so each call gets its own
	return cases.Fold().String(s)
}

func foldAll(patterns []string) []string {
	var folded []string
	for _, p := range patterns {
		if f := fold(strings.TrimSpace(p)); f != "" {
			folded = append(folded, f)
		}
	}
	return folded
}
