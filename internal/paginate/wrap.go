package paginate

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width runes, splitting on spaces.
// Words longer than width are hard-split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultConfig().Columns
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	currentLen := 0
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if currentLen > 0 {
				lines = append(lines, current.String())
				current.Reset()
				currentLen = 0
			}
			head, tail := splitRunes(w, width)
			lines = append(lines, head)
			w = tail
		}
		wl := utf8.RuneCountInString(w)
		if currentLen > 0 && currentLen+1+wl > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(w)
		currentLen += wl
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// EstimateLines is the number of wrapped lines text occupies at width.
func EstimateLines(text string, width int) int {
	return len(Wrap(text, width))
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
