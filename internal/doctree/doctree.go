// Package doctree holds the structured play document shared by the builder and
// the renderers.
package doctree

// Role is the semantic role of a classified line, a paragraph or a span.
type Role int

const (
	Blank Role = iota
	CharacterCue
	Dialogue
	InlineDirection
	StandaloneDirection
	SceneHeader
	SettingLine

	// Paragraph-only roles produced by the builder.
	Cover
	EndMarker
)

var roleNames = [...]string{
	Blank:               "blank",
	CharacterCue:        "character_cue",
	Dialogue:            "dialogue",
	InlineDirection:     "inline_direction",
	StandaloneDirection: "standalone_direction",
	SceneHeader:         "scene_header",
	SettingLine:         "setting_line",
	Cover:               "cover",
	EndMarker:           "end_marker",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// MarshalText lets roles appear by name in JSON responses.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Alignment is the horizontal placement of a paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Span is a run of text with uniform emphasis. Bold is never applied, so the
// model has no field for it.
type Span struct {
	Text   string `json:"text"`
	Role   Role   `json:"role"`
	Italic bool   `json:"italic,omitempty"`
}

// Paragraph is the unit consumed by the renderers.
type Paragraph struct {
	Role     Role      `json:"role"`
	Align    Alignment `json:"align"`
	Spans    []Span    `json:"spans"`
	Numbered bool      `json:"numbered"` // page numbers shown (script body only)
}

// Text returns the visible text of the paragraph.
func (p Paragraph) Text() string {
	if len(p.Spans) == 1 {
		return p.Spans[0].Text
	}
	var n int
	for _, s := range p.Spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range p.Spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Metadata is supplied by the collaborator (UI or CLI) and shapes the cover page.
type Metadata struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Scene     string `json:"scene,omitempty" yaml:"scene"` // optional scene/act line
	Draft     string `json:"draft,omitempty" yaml:"draft"`
	Contact   string `json:"contact,omitempty" yaml:"contact"`
	Copyright string `json:"copyright,omitempty" yaml:"copyright"`
}

// Document is a built play: one cover construct followed by the script body.
type Document struct {
	Meta  Metadata    `json:"meta"`
	Cover []Paragraph `json:"cover"`
	Body  []Paragraph `json:"body"`
}

// Paragraphs returns the cover paragraphs followed by the body paragraphs.
func (d *Document) Paragraphs() []Paragraph {
	out := make([]Paragraph, 0, len(d.Cover)+len(d.Body))
	out = append(out, d.Cover...)
	return append(out, d.Body...)
}
