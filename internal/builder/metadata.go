package builder

import (
	"regexp"
	"strings"

	"github.com/dgallion1/playfmt/internal/classify"
	"github.com/dgallion1/playfmt/internal/doctree"
)

var (
	authorPattern = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z]\.)?\s+[A-Z][a-z]+`)
	emailPattern  = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w+`)
	byPattern     = regexp.MustCompile(`(?i)^(?:written\s+)?by\b:?\s*(.*)$`)
	draftPattern  = regexp.MustCompile(`(?i)^(?:\w+\s+)?draft\b`)
	rightsPattern = regexp.MustCompile(`(?i)^(?:copyright\b|©|\(c\)\s)`)
	reservedText  = "all rights reserved"
)

const (
	authorWindow = 5
	emailWindow  = 50
)

// GuessMetadata reads the front matter of an imported script. The title is
// the first non-blank line; the author is the name after a "By" line (or on
// it), else the first "Firstname Lastname" line among the next few lines. The
// first e-mail address near the top becomes the contact line. Draft and
// copyright lines in the front matter are picked up as well.
//
// The returned index is the first line of the script body: the first scene
// marker or character cue after the title. It is len(lines) when nothing
// looks like a script body.
//
// A script with no title page guesses nothing and starts at 0. That is the
// case when the first line is a scene or setting marker or a parenthetical,
// or when it is cue-shaped and no author follows it.
func GuessMetadata(lines []classify.RawLine) (doctree.Metadata, int) {
	var meta doctree.Metadata

	var nonBlank []int
	for i, l := range lines {
		if strings.TrimSpace(l.Text) != "" {
			nonBlank = append(nonBlank, i)
		}
	}
	if len(nonBlank) == 0 {
		return meta, len(lines)
	}

	text := func(i int) string { return strings.TrimSpace(lines[i].Text) }
	first := text(nonBlank[0])
	if scriptShaped(first) {
		return meta, 0
	}

	lastFront := nonBlank[0]
	window := nonBlank[1:]
	if len(window) > authorWindow {
		window = window[:authorWindow]
	}
	for k, idx := range window {
		line := text(idx)
		if m := byPattern.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				meta.Author = name
				lastFront = idx
			} else if k+1 < len(window) {
				meta.Author = text(window[k+1])
				lastFront = window[k+1]
			}
			break
		}
		if authorPattern.MatchString(line) && !classify.IsCue(line) {
			meta.Author = line
			lastFront = idx
			break
		}
	}

	if meta.Author == "" && classify.IsCue(first) {
		return doctree.Metadata{}, 0
	}
	meta.Title = first

	for i, idx := range nonBlank {
		if i >= emailWindow {
			break
		}
		if m := emailPattern.FindString(text(idx)); m != "" {
			meta.Contact = m
			break
		}
	}

	for _, idx := range nonBlank {
		if idx <= lastFront {
			continue
		}
		line := text(idx)
		switch {
		case draftPattern.MatchString(line):
			if meta.Draft == "" {
				meta.Draft = line
			}
			continue
		case rightsPattern.MatchString(line):
			if meta.Copyright == "" {
				meta.Copyright = line
			}
			continue
		case strings.Contains(strings.ToLower(line), reservedText), emailPattern.MatchString(line):
			continue
		}
		if classify.IsSceneMarker(line) {
			meta.Scene = line
			return meta, idx + 1
		}
		if classify.IsCue(line) || classify.IsSettingMarker(line) || classify.IsStandaloneDirection(line) {
			return meta, idx
		}
	}
	return meta, len(lines)
}

func scriptShaped(line string) bool {
	return classify.IsSceneMarker(line) ||
		classify.IsSettingMarker(line) ||
		strings.HasPrefix(line, "(")
}
