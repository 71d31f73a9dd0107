package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxExcerptLength bounds an excerpt in characters, marker included.
	MaxExcerptLength = 500
	MaxSentences     = 2

	TruncationMarker = " [...]"
)

// Truncate returns the shorter of the first two sentences and the first
// MaxExcerptLength characters of text, marked with TruncationMarker when
// anything was cut. Blank text is returned unchanged.
func Truncate(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	length := utf8.RuneCountInString(text)

	byLength := text
	if length > MaxExcerptLength {
		// Room is left for the marker so a marked excerpt stays within the
		// bound and is always shorter than the text it came from
		byLength = string([]rune(text)[:MaxExcerptLength-utf8.RuneCountInString(TruncationMarker)])
	}

	excerpt := byLength
	bySentences := firstSentences(text, MaxSentences)
	if utf8.RuneCountInString(bySentences) < utf8.RuneCountInString(byLength) {
		excerpt = bySentences
	}

	if utf8.RuneCountInString(excerpt) < length {
		excerpt += TruncationMarker
	}

	return excerpt
}

// firstSentences returns the first n sentences joined by single spaces, or
// text itself when it has no more than n. A sentence ends at '.', '?' or '!'
// followed by whitespace.
func firstSentences(text string, n int) string {
	runes := []rune(text)

	var sentences []string
	start := 0
	for i := 0; i < len(runes)-1 && len(sentences) < n; i++ {
		if !isSentenceEnd(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		sentences = append(sentences, string(runes[start:i+1]))

		next := i + 1
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		start = next
		i = next - 1
	}

	// Trailing whitespace is not a sentence of its own
	if len(sentences) < n || start >= len(runes) {
		return text
	}

	return strings.Join(sentences, " ")
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}
