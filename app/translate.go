package app

import (
	"cmp"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/candinya/rss-translate-layer/modules"
	"github.com/candinya/rss-translate-layer/types"
	"github.com/gorilla/feeds"
	"go.uber.org/zap"
)

const (
	defaultFeedTitle = "Untitled Feed"
	defaultItemTitle = "No Title"
)

// translateFeed builds a new translated feed; src is only read.
func (a *app) translateFeed(ctx context.Context, src *types.FeedDocument, targetLang string) *feeds.Feed {
	forceFallback := a.selector.ShouldForceFallback(src)
	a.l.Debug("provider selected for feed", zap.String("title", src.Title), zap.Bool("force_fallback", forceFallback))

	title := a.translatePart(ctx, cmp.Or(modules.StripHTML(src.Title), defaultFeedTitle), targetLang, forceFallback, "channel", "title")
	description := a.translatePart(ctx, modules.StripHTML(src.Description), targetLang, forceFallback, "channel", "description")
	if strings.TrimSpace(description) == "" {
		description = title
	}

	feed := &feeds.Feed{
		Title:       title,
		Description: description,
		Link: &feeds.Link{
			Href: src.Link,
			Rel:  "alternate",
		},
		Id:      cmp.Or(src.ID, src.Link),
		Updated: time.Now().UTC(),
	}

	feed.Items = make([]*feeds.Item, 0, len(src.Entries))
	for i := range src.Entries {
		feed.Items = append(feed.Items, a.translateItem(ctx, &src.Entries[i], targetLang, forceFallback))
	}

	return feed
}

func (a *app) translateItem(ctx context.Context, entry *types.FeedEntry, targetLang string, forceFallback bool) *feeds.Item {
	// Translate wg
	var translateWg sync.WaitGroup

	// Translate channels
	tTitle := make(chan string, 1)
	tDescription := make(chan string, 1)
	tAuthor := make(chan string, 1)

	// Title
	translateWg.Add(1)
	go func() {
		defer translateWg.Done()
		tTitle <- a.translatePart(ctx, cmp.Or(modules.StripHTML(entry.Title), defaultItemTitle), targetLang, forceFallback, entry.ID, "title")
	}()

	// Description
	translateWg.Add(1)
	go func() {
		defer translateWg.Done()
		tDescription <- a.translatePart(ctx, modules.StripHTML(entry.Description), targetLang, forceFallback, entry.ID, "description")
	}()

	// Author
	if entry.Author != "" {
		translateWg.Add(1)
		go func() {
			defer translateWg.Done()
			tAuthor <- a.translatePart(ctx, modules.StripHTML(entry.Author), targetLang, forceFallback, entry.ID, "author")
		}()
	}

	// Wait for all finish
	translateWg.Wait()

	// Close channels
	close(tTitle)
	close(tDescription)
	close(tAuthor)

	item := &feeds.Item{
		Title: <-tTitle,
		Link: &feeds.Link{
			Href: entry.Link,
		},
		Id:          cmp.Or(entry.ID, entry.Link),
		IsPermaLink: "false",
	}

	item.Description = <-tDescription
	if strings.TrimSpace(item.Description) == "" {
		a.l.Debug("empty item description, use title", zap.String("id", entry.ID))
		item.Description = item.Title
	}

	if translatedAuthor, ok := <-tAuthor; ok && translatedAuthor != "" {
		item.Author = &feeds.Author{
			Name: translatedAuthor,
		}
	}

	if entry.PublishedAt != nil {
		item.Created = entry.PublishedAt.UTC()
	}

	return item
}

func (a *app) translatePart(ctx context.Context, text string, targetLang string, forceFallback bool, id string, part string) string {
	translated := a.translator.Translate(ctx, text, targetLang, forceFallback)
	a.l.Debug("part translated", zap.String("id", id), zap.String("part", part), zap.String("source", text), zap.String("translated", translated))
	return translated
}
