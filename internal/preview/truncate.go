// Package preview builds the short plain-text excerpts shown in list views.
package preview

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultMaxWords is the excerpt length used by list views.
const DefaultMaxWords = 30

// StripTags returns the text content of an HTML fragment with every tag and
// comment dropped and character references decoded.
func StripTags(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF once the fragment is consumed; a strings.Reader fails no other way
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Truncate reduces rendered HTML to at most maxWords space-separated words,
// cut back to the last sentence end (".", "!" or "?") inside that window when
// there is one. Text that already fits is returned unchanged. No ellipsis is
// ever appended.
func Truncate(fragment string, maxWords int) string {
	if maxWords < 0 {
		maxWords = 0
	}
	text := StripTags(fragment)
	words := strings.Split(text, " ")
	if len(words) <= maxWords {
		return text
	}

	truncated := strings.Join(words[:maxWords], " ")
	if end := strings.LastIndexAny(truncated, ".!?"); end > 0 {
		return truncated[:end+1]
	}
	return truncated
}
