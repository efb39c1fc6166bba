package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/playfmt/internal/doctree"
	"github.com/dgallion1/playfmt/internal/paginate"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PreviewOptions shapes the on-screen projections.
type PreviewOptions struct {
	Columns      int
	LinesPerPage int
	PageNumbers  Corner
}

// PreviewFor derives preview geometry from the typographic options, assuming
// an average glyph width of 0.6 em and 1.2 line spacing.
func PreviewFor(o Options) PreviewOptions {
	p := PreviewOptions{PageNumbers: o.corner()}
	if o.SizePt > 0 {
		p.Columns = int((o.PageWidthIn - 2*o.MarginIn) * 72 / (o.SizePt * 0.6))
		p.LinesPerPage = int((o.PageHeightIn-2*o.MarginIn)*72/(o.SizePt*1.2)) - 1
	}
	def := paginate.DefaultConfig()
	if p.Columns <= 0 {
		p.Columns = def.Columns
	}
	if p.LinesPerPage <= 0 {
		p.LinesPerPage = def.LinesPerPage
	}
	return p
}

func (p PreviewOptions) pageConfig() paginate.Config {
	return paginate.Config{Columns: p.Columns, LinesPerPage: p.LinesPerPage}
}

// Preview renders doc as plain text: the cover block, a page rule, then each
// estimated body page with its number in the configured corner. Italic spans
// are wrapped in underscores.
func Preview(doc *doctree.Document, opts PreviewOptions) string {
	width := opts.Columns
	if width <= 0 {
		width = paginate.DefaultConfig().Columns
	}
	corner := opts.PageNumbers
	if corner == "" {
		corner = UpperRight
	}

	var b strings.Builder
	for _, p := range doc.Cover {
		for _, line := range paginate.Wrap(markup(p), width) {
			b.WriteString(alignLine(line, p.Align, width))
			b.WriteByte('\n')
		}
	}

	pages := paginate.Paginate(doc.Body, opts.pageConfig(), markup)
	for _, pg := range pages {
		b.WriteString(strings.Repeat("=", width))
		b.WriteByte('\n')
		number := alignLine(strconv.Itoa(pg.Number), cornerAlign(corner), width)
		if corner.Upper() {
			b.WriteString(number)
			b.WriteString("\n")
		}
		for _, blk := range pg.Blocks {
			if blk.Spaced {
				b.WriteByte('\n')
			}
			p := doc.Body[blk.Index]
			for _, line := range blk.Lines {
				b.WriteString(alignLine(line, p.Align, width))
				b.WriteByte('\n')
			}
		}
		if !corner.Upper() {
			b.WriteByte('\n')
			b.WriteString(number)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PageCount is the number of estimated body pages.
func PageCount(doc *doctree.Document, opts PreviewOptions) int {
	return len(paginate.Paginate(doc.Body, opts.pageConfig(), markup))
}

func cornerAlign(c Corner) doctree.Alignment {
	if c.Right() {
		return doctree.AlignRight
	}
	return doctree.AlignLeft
}

// markup is the plain-text form of a paragraph with italics marked.
func markup(p doctree.Paragraph) string {
	var b strings.Builder
	for _, s := range p.Spans {
		if s.Italic && strings.TrimSpace(s.Text) != "" {
			b.WriteString("_" + s.Text + "_")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func alignLine(line string, align doctree.Alignment, width int) string {
	n := utf8.RuneCountInString(line)
	if n >= width {
		return line
	}
	switch align {
	case doctree.AlignCenter:
		return strings.Repeat(" ", (width-n)/2) + line
	case doctree.AlignRight:
		return strings.Repeat(" ", width-n) + line
	default:
		return line
	}
}

var previewClass = map[doctree.Role]string{
	doctree.Cover:               "preview-title",
	doctree.SceneHeader:         "preview-scene",
	doctree.SettingLine:         "preview-setting",
	doctree.CharacterCue:        "preview-character",
	doctree.Dialogue:            "preview-dialogue",
	doctree.StandaloneDirection: "preview-stage",
	doctree.EndMarker:           "preview-end",
}

// HTMLPreview renders doc as an HTML fragment built from x/net/html nodes. Body
// pages are marked with their estimated page number.
func HTMLPreview(doc *doctree.Document, opts PreviewOptions) (string, error) {
	corner := opts.PageNumbers
	if corner == "" {
		corner = UpperRight
	}
	root := element(atom.Div, "preview-play")

	for _, p := range doc.Cover {
		root.AppendChild(paragraphNode(atom.Div, p))
	}
	root.AppendChild(&html.Node{Type: html.ElementNode, DataAtom: atom.Hr, Data: "hr"})

	for _, pg := range paginate.Paginate(doc.Body, opts.pageConfig(), markup) {
		page := element(atom.Section, "preview-page")
		page.Attr = append(page.Attr, html.Attribute{Key: "data-page", Val: strconv.Itoa(pg.Number)})
		num := element(atom.Div, "preview-page-number")
		num.Attr = append(num.Attr, html.Attribute{Key: "style", Val: "text-align:" + string(cornerAlign(corner))})
		num.AppendChild(textNode(strconv.Itoa(pg.Number)))
		if corner.Upper() {
			page.AppendChild(num)
		}
		for _, blk := range pg.Blocks {
			if blk.Continued {
				continue
			}
			page.AppendChild(paragraphNode(atom.P, doc.Body[blk.Index]))
		}
		if !corner.Upper() {
			page.AppendChild(num)
		}
		root.AppendChild(page)
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", fmt.Errorf("%w: html preview: %v", ErrRender, err)
	}
	return b.String(), nil
}

func paragraphNode(a atom.Atom, p doctree.Paragraph) *html.Node {
	n := element(a, previewClass[p.Role])
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "text-align:" + string(p.Align)})
	for _, s := range p.Spans {
		if s.Text == "" {
			continue
		}
		if s.Italic {
			em := &html.Node{Type: html.ElementNode, DataAtom: atom.Em, Data: "em"}
			em.AppendChild(textNode(s.Text))
			n.AppendChild(em)
			continue
		}
		n.AppendChild(textNode(s.Text))
	}
	return n
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
