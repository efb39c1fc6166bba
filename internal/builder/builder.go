// Package builder turns classified lines and externally supplied metadata into a
// doctree.Document.
package builder

import (
	"strings"

	"github.com/dgallion1/playfmt/internal/classify"
	"github.com/dgallion1/playfmt/internal/doctree"
)

// CoverFlags switches the optional cover lines on or off. Title, "By" and
// author are always present.
type CoverFlags struct {
	Draft     bool `yaml:"draft"`
	Contact   bool `yaml:"contact"`
	Copyright bool `yaml:"copyright"`
}

// Options controls document assembly.
type Options struct {
	Cover     CoverFlags
	EndMarker bool
}

// DefaultOptions enables every optional cover line and the end marker.
func DefaultOptions() Options {
	return Options{
		Cover:     CoverFlags{Draft: true, Contact: true, Copyright: true},
		EndMarker: true,
	}
}

const (
	byLine         = "By"
	endMarkerText  = "— END —"
	rightsReserved = "All rights reserved."
)

// Build assembles the cover page and the script body. Empty title or author
// leave their cover lines blank; validation belongs to the caller.
func Build(meta doctree.Metadata, tagged []classify.Tagged, opts Options) *doctree.Document {
	doc := &doctree.Document{
		Meta:  meta,
		Cover: buildCover(meta, opts.Cover),
	}

	var body []doctree.Paragraph
	if scene := strings.TrimSpace(meta.Scene); scene != "" {
		body = append(body, plainParagraph(doctree.SceneHeader, doctree.AlignLeft, scene))
	}

	for _, t := range tagged {
		text := t.Trimmed()
		switch t.Role {
		case doctree.Blank:
			continue
		case doctree.StandaloneDirection:
			if t.Continued && len(body) > 0 && body[len(body)-1].Role == doctree.StandaloneDirection {
				last := &body[len(body)-1]
				last.Spans[0].Text += " " + text
				continue
			}
			p := plainParagraph(doctree.StandaloneDirection, doctree.AlignLeft, text)
			p.Spans[0].Italic = true
			body = append(body, p)
		case doctree.CharacterCue:
			body = append(body, plainParagraph(doctree.CharacterCue, doctree.AlignCenter, text))
		case doctree.SceneHeader, doctree.SettingLine:
			body = append(body, plainParagraph(t.Role, doctree.AlignLeft, text))
		default:
			body = append(body, doctree.Paragraph{
				Role:  doctree.Dialogue,
				Align: doctree.AlignLeft,
				Spans: classify.SplitInline(text),
			})
		}
	}

	// A re-imported script still carries the marker from its last run.
	for len(body) > 0 && body[len(body)-1].Text() == endMarkerText {
		body = body[:len(body)-1]
	}
	if opts.EndMarker {
		p := plainParagraph(doctree.EndMarker, doctree.AlignCenter, endMarkerText)
		p.Spans[0].Italic = true
		body = append(body, p)
	}

	for i := range body {
		body[i].Numbered = true
	}
	doc.Body = body
	return doc
}

func buildCover(meta doctree.Metadata, flags CoverFlags) []doctree.Paragraph {
	cover := []doctree.Paragraph{
		coverLine(strings.TrimSpace(meta.Title)),
		coverLine(byLine),
		coverLine(strings.TrimSpace(meta.Author)),
	}
	if v := strings.TrimSpace(meta.Draft); flags.Draft && v != "" {
		cover = append(cover, coverLine(v))
	}
	if v := strings.TrimSpace(meta.Contact); flags.Contact && v != "" {
		cover = append(cover, coverLine(v))
	}
	if v := strings.TrimSpace(meta.Copyright); flags.Copyright && v != "" {
		cover = append(cover, coverLine(copyrightLine(v)), coverLine(rightsReserved))
	}
	return cover
}

func copyrightLine(v string) string {
	if strings.HasPrefix(strings.ToLower(v), "copyright") {
		return v
	}
	return "Copyright " + v
}

func coverLine(text string) doctree.Paragraph {
	return plainParagraph(doctree.Cover, doctree.AlignCenter, text)
}

func plainParagraph(role doctree.Role, align doctree.Alignment, text string) doctree.Paragraph {
	return doctree.Paragraph{
		Role:  role,
		Align: align,
		Spans: []doctree.Span{{Text: text, Role: role}},
	}
}
