// Package classify assigns a semantic role to every line of a plain-text play
// script.
//
// Classification is tolerant: every line receives exactly one role and lines
// that match no rule fall back to dialogue. The only state carried between
// lines is whether a multi-line parenthetical is still open and whether the
// first non-blank line has been seen.
package classify

import (
	"strings"

	"github.com/dgallion1/playfmt/internal/doctree"
)

// RawLine is one line of input. Text keeps the original content; rules look at
// the trimmed form.
type RawLine struct {
	Index int
	Text  string
}

// Tagged is a classified line. Continued marks a line that belongs to a
// standalone direction opened on an earlier line.
type Tagged struct {
	Line      RawLine
	Role      doctree.Role
	Continued bool
	Rule      string // name of the rule that matched
}

// Trimmed returns the line text without surrounding whitespace.
func (t Tagged) Trimmed() string {
	return strings.TrimSpace(t.Line.Text)
}

// Lines splits text into raw lines, accepting \n and \r\n endings.
func Lines(text string) []RawLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	lines := make([]RawLine, len(parts))
	for i, p := range parts {
		lines[i] = RawLine{Index: i, Text: p}
	}
	return lines
}

// ClassifyText is Classify(Lines(text)).
func ClassifyText(text string) []Tagged {
	return Classify(Lines(text))
}

// Classify returns one Tagged entry per input line, in input order.
func Classify(lines []RawLine) []Tagged {
	out := make([]Tagged, 0, len(lines))
	rules := Rules()

	var (
		depth     int // open parenthesis depth of a multi-line direction
		seenFirst bool
	)
	for _, line := range lines {
		c := Context{
			Line:    line,
			Trimmed: strings.TrimSpace(line.Text),
			Open:    depth > 0,
		}
		c.First = !seenFirst && c.Trimmed != ""

		t := Tagged{Line: line, Role: doctree.Dialogue, Rule: "dialogue"}
		for _, r := range rules {
			if r.Match(c) {
				t.Role = r.Role
				t.Rule = r.Name
				break
			}
		}

		if t.Role == doctree.StandaloneDirection {
			if c.Open {
				t.Continued = true
				depth += parenDelta(c.Trimmed)
			} else {
				depth = parenDelta(c.Trimmed)
			}
			if depth < 0 {
				depth = 0
			}
		}
		if c.Trimmed != "" {
			seenFirst = true
		}
		out = append(out, t)
	}
	return out
}

// parenDelta is the net change in parenthesis depth across s.
func parenDelta(s string) int {
	d := 0
	for _, r := range s {
		switch r {
		case '(':
			d++
		case ')':
			d--
		}
	}
	return d
}

// matchingClose returns the byte index of the ')' matching the '(' at open, or
// -1 when the parenthetical does not close within s.
func matchingClose(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
