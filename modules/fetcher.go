package modules

import (
	"bytes"
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/candinya/rss-translate-layer/types"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const maxFeedSize = 20 << 20

var (
	// ErrMalformedFeed marks source bytes that are not a well-formed feed.
	ErrMalformedFeed = errors.New("malformed feed")
	// ErrFetch marks upstream transport and status failures.
	ErrFetch = errors.New("failed to fetch feed")
)

type Fetcher struct {
	l *zap.Logger

	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string, l *zap.Logger) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Source feeds are frequently misconfigured; their certificates are not trusted anyway
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Fetcher{
		l: l,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// Fetch downloads and parses the feed at feedURL.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*types.FeedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	f.l.Debug("do request", zap.String("url", feedURL))
	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	defer res.Body.Close() // Ignore errors

	if res.StatusCode < 200 || res.StatusCode > 299 {
		f.l.Debug("response status not OK", zap.Int("status", res.StatusCode))
		return nil, fmt.Errorf("%w: bad status code: %d", ErrFetch, res.StatusCode)
	}

	// One extra byte tells an oversized feed from one exactly at the limit
	data, err := io.ReadAll(io.LimitReader(res.Body, maxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetch, err)
	}
	if len(data) > maxFeedSize {
		return nil, fmt.Errorf("%w: feed too large (over %d bytes)", ErrFetch, maxFeedSize)
	}

	return f.Parse(data)
}

// Parse converts raw feed bytes into a FeedDocument.
func (f *Fetcher) Parse(data []byte) (*types.FeedDocument, error) {
	// gofeed parsers keep per-document state
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	f.l.Debug("feed parsed", zap.String("type", feed.FeedType), zap.Int("items", len(feed.Items)))

	doc := &types.FeedDocument{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		ID:          cmp.Or(feed.Link, feed.FeedLink),
		Language:    feed.Language,
		Entries:     make([]types.FeedEntry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		doc.Entries = append(doc.Entries, convertItem(item))
	}

	return doc, nil
}

func convertItem(item *gofeed.Item) types.FeedEntry {
	entry := types.FeedEntry{
		Title:       item.Title,
		Description: cmp.Or(item.Description, item.Content),
		Link:        item.Link,
		ID:          cmp.Or(item.GUID, item.Link),
	}

	if item.Author != nil {
		entry.Author = cmp.Or(item.Author.Name, item.Author.Email)
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		entry.Author = cmp.Or(item.Authors[0].Name, item.Authors[0].Email)
	}

	if item.PublishedParsed != nil && !item.PublishedParsed.IsZero() {
		published := item.PublishedParsed.UTC()
		entry.PublishedAt = &published
	}

	return entry
}
