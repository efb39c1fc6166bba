package classify

import (
	"strings"

	"github.com/dgallion1/playfmt/internal/doctree"
)

// SplitInline splits a dialogue line into plain dialogue spans and italic
// inline-direction spans. Each balanced parenthetical, parentheses included,
// becomes one direction span. An unmatched '(' leaves the rest of the line
// plain. Concatenating the span texts always yields s.
func SplitInline(s string) []doctree.Span {
	var spans []doctree.Span
	plain := func(t string) {
		if t != "" {
			spans = append(spans, doctree.Span{Text: t, Role: doctree.Dialogue})
		}
	}

	rest := s
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			break
		}
		end := matchingClose(rest, open)
		if end < 0 {
			break
		}
		plain(rest[:open])
		spans = append(spans, doctree.Span{
			Text:   rest[open : end+1],
			Role:   doctree.InlineDirection,
			Italic: true,
		})
		rest = rest[end+1:]
	}
	plain(rest)

	if len(spans) == 0 {
		spans = append(spans, doctree.Span{Text: s, Role: doctree.Dialogue})
	}
	return spans
}
