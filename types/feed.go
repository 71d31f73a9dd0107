package types

import "time"

// FeedDocument is the parsed source feed. It is read-only once produced.
type FeedDocument struct {
	Title       string
	Description string
	Link        string
	ID          string
	Language    string
	Entries     []FeedEntry
}

type FeedEntry struct {
	Title       string
	Description string
	Author      string // empty when the source has none
	Link        string
	ID          string
	PublishedAt *time.Time
}
