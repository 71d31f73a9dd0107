package modules

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripHTML returns the visible text of an HTML fragment. Text nodes are
// trimmed and joined with single spaces; script and style content is dropped.
func StripHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	parsed, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.Join(strings.Fields(src), " ")
	}

	var parts []string
	for _, node := range parsed {
		parts = collectText(node, parts)
	}

	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts []string) []string {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return parts
	}

	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			parts = append(parts, text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = collectText(c, parts)
	}

	return parts
}
