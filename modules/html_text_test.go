package modules

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "Tech News", "Tech News"},
		{"empty", "", ""},
		{"whitespace", "  \n ", ""},
		{"inline tags", "<b>Breaking:</b> X happens", "Breaking: X happens"},
		{"paragraphs keep word breaks", "<p>First paragraph.</p><p>Second paragraph.</p>", "First paragraph. Second paragraph."},
		{"entities decoded", "Fish &amp; Chips &lt;3", "Fish & Chips <3"},
		{"collapses whitespace", "<div>\n  spaced\n\n  out  </div>", "spaced out"},
		{"drops scripts", "Hello<script>alert(1)</script><style>p{}</style> world", "Hello world"},
		{"images only", `<img src="https://example.com/a.png">`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.expected {
				t.Errorf("StripHTML(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
