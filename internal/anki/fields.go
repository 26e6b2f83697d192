package anki

import (
	"regexp"
	"strings"
)

var (
	brRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe = regexp.MustCompile(`<[^>]+>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
)

// PlainText is a lossy, best-effort plain-text projection of a card field:
// <br> becomes a newline, remaining HTML tags are stripped, the five standard
// HTML entities are unescaped, and the result is trimmed. Markdown syntax is
// not interpreted, only literal HTML remnants are removed.
func PlainText(html string) string {
	if html == "" {
		return ""
	}
	s := brRe.ReplaceAllString(html, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// noteTags builds Anki's space-delimited tag string. The leading and trailing
// spaces are part of the convention.
func noteTags(category, deckTitle string) string {
	if category == "" {
		category = "general"
	}
	return " " + category + " " + deckTitle + " "
}
