package translate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsShortText(t *testing.T) {
	tests := []string{
		"Hello world",
		"One sentence.",
		"First sentence. Second sentence.",
		"Question? Exclamation!",
		"Trailing space after two. Sentences. ",
		strings.Repeat("a", MaxExcerptLength),
		"Version 1.2 released",
	}

	for _, text := range tests {
		if got := Truncate(text); got != text {
			t.Errorf("Truncate(%q) = %q, expected unchanged", text, got)
		}
	}
}

func TestTruncateBlankIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if got := Truncate(text); got != text {
			t.Errorf("Truncate(%q) = %q, expected unchanged", text, got)
		}
	}
}

func TestTruncateToTwoSentences(t *testing.T) {
	text := "First one. Second one!   Third one? Fourth."
	expected := "First one. Second one!" + TruncationMarker

	if got := Truncate(text); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestTruncateNewlineIsSentenceBoundary(t *testing.T) {
	text := "First.\nSecond.\nThird."
	expected := "First. Second." + TruncationMarker

	if got := Truncate(text); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestTruncateLongTextWithoutSentences(t *testing.T) {
	for _, length := range []int{MaxExcerptLength + 1, MaxExcerptLength + 3, 5000} {
		text := strings.Repeat("x", length)
		got := Truncate(text)

		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("length %d: expected marker suffix, got %q", length, got[len(got)-10:])
		}
		if utf8.RuneCountInString(got) >= length {
			t.Errorf("length %d: expected output shorter than input, got %d", length, utf8.RuneCountInString(got))
		}
		if utf8.RuneCountInString(got) > MaxExcerptLength {
			t.Errorf("length %d: expected at most %d characters, got %d", length, MaxExcerptLength, utf8.RuneCountInString(got))
		}
	}
}

func TestTruncatePicksShorterCandidate(t *testing.T) {
	// Two long sentences: the length bound wins
	long := strings.Repeat("word ", 80) + ". " + strings.Repeat("more ", 80) + ". End."
	got := Truncate(long)
	if utf8.RuneCountInString(got) != MaxExcerptLength {
		t.Errorf("Expected length-bound excerpt of %d characters, got %d", MaxExcerptLength, utf8.RuneCountInString(got))
	}

	// Short sentences in a long text: the sentence bound wins
	short := "Short. Also short. " + strings.Repeat("filler ", 100)
	if got := Truncate(short); got != "Short. Also short."+TruncationMarker {
		t.Errorf("Expected sentence excerpt, got %q", got)
	}
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("ü", MaxExcerptLength)
	if got := Truncate(text); got != text {
		t.Errorf("Expected %d multi-byte characters unchanged", MaxExcerptLength)
	}
}
