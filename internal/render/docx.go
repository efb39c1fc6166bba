package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/dgallion1/playfmt/internal/doctree"
)

// DOCXContentType is the MIME type of the artifact written by DOCX.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relDoc      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relApp      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relHeader   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// spacing is paragraph spacing in twips.
type spacing struct {
	before, after int
	keepNext      bool
}

var roleSpacing = map[doctree.Role]spacing{
	doctree.SceneHeader:         {before: 240, after: 240},
	doctree.SettingLine:         {before: 240, after: 240},
	doctree.StandaloneDirection: {before: 120, after: 120},
	doctree.CharacterCue:        {before: 240, keepNext: true},
	doctree.Dialogue:            {after: 120},
	doctree.EndMarker:           {before: 480},
	doctree.Cover:               {after: 120},
}

// coverOffset pushes the title down the cover page.
const coverOffset = 2880

// DOCX writes doc as a WordprocessingML package. The cover sits in its own
// section without a header; the body section starts on a new page, restarts
// numbering at 1 and carries the PAGE field in the configured corner.
func DOCX(doc *doctree.Document, opts Options, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	corner := opts.corner()

	runningPart, runningRel, runningCT := "word/header1.xml", relHeader, "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	if !corner.Upper() {
		runningPart, runningRel, runningCT = "word/footer1.xml", relFooter, "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	}

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", contentTypes(runningPart, runningCT)},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", coreProps(doc.Meta)},
		{"docProps/app.xml", appProps()},
		{"word/_rels/document.xml.rels", documentRels(runningRel, runningPart[len("word/"):])},
		{"word/styles.xml", styles(opts)},
		{"word/settings.xml", settings()},
		{"word/document.xml", documentXML(doc, opts, corner)},
		{runningPart, runningXML(corner)},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrRender, p.name, err)
		}
		if _, err := f.Write(p.body); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrRender, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: close docx: %v", ErrRender, err)
	}
	return nil
}

func (o Options) corner() Corner {
	c, err := ParseCorner(string(o.PageNumbers))
	if err != nil {
		return UpperRight
	}
	return c
}

// xmlBuf accumulates markup; text and attribute values go through escape.
type xmlBuf struct{ bytes.Buffer }

func (b *xmlBuf) raw(s string) { b.WriteString(s) }

func (b *xmlBuf) text(s string) {
	_ = xml.EscapeText(&b.Buffer, []byte(s))
}

func (b *xmlBuf) attr(name, val string) {
	b.WriteString(" " + name + `="`)
	b.text(val)
	b.WriteByte('"')
}

func documentXML(doc *doctree.Document, opts Options, corner Corner) []byte {
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `"><w:body>`)

	for i, p := range doc.Cover {
		sp := roleSpacing[doctree.Cover]
		if i == 0 {
			sp.before = coverOffset
		}
		writeParagraph(&b, p, sp)
	}
	// The cover section ends with this paragraph's section properties.
	b.raw(`<w:p><w:pPr>`)
	writeSection(&b, opts, corner, false)
	b.raw(`</w:pPr></w:p>`)

	for _, p := range doc.Body {
		writeParagraph(&b, p, roleSpacing[p.Role])
	}
	writeSection(&b, opts, corner, true)

	b.raw(`</w:body></w:document>`)
	return b.Bytes()
}

func writeParagraph(b *xmlBuf, p doctree.Paragraph, sp spacing) {
	b.raw(`<w:p><w:pPr>`)
	if sp.keepNext {
		b.raw(`<w:keepNext/>`)
	}
	b.raw(`<w:spacing`)
	b.attr("w:before", strconv.Itoa(sp.before))
	b.attr("w:after", strconv.Itoa(sp.after))
	b.raw(`/>`)
	b.raw(`<w:jc`)
	b.attr("w:val", jcValue(p.Align))
	b.raw(`/></w:pPr>`)
	for _, s := range p.Spans {
		if s.Text == "" {
			continue
		}
		b.raw(`<w:r>`)
		if s.Italic {
			b.raw(`<w:rPr><w:i/><w:iCs/></w:rPr>`)
		}
		b.raw(`<w:t xml:space="preserve">`)
		b.text(s.Text)
		b.raw(`</w:t></w:r>`)
	}
	b.raw(`</w:p>`)
}

func jcValue(a doctree.Alignment) string {
	switch a {
	case doctree.AlignCenter:
		return "center"
	case doctree.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func writeSection(b *xmlBuf, opts Options, corner Corner, body bool) {
	b.raw(`<w:sectPr>`)
	if body {
		kind := "header"
		if !corner.Upper() {
			kind = "footer"
		}
		b.raw(`<w:` + kind + `Reference w:type="default" r:id="rId3"/>`)
		b.raw(`<w:type w:val="nextPage"/>`)
	}
	b.raw(`<w:pgSz`)
	b.attr("w:w", strconv.Itoa(twips(opts.PageWidthIn)))
	b.attr("w:h", strconv.Itoa(twips(opts.PageHeightIn)))
	b.raw(`/><w:pgMar`)
	m := strconv.Itoa(twips(opts.MarginIn))
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		b.attr(side, m)
	}
	b.attr("w:header", "720")
	b.attr("w:footer", "720")
	b.attr("w:gutter", "0")
	b.raw(`/>`)
	if body {
		b.raw(`<w:pgNumType w:start="1"/>`)
	}
	b.raw(`</w:sectPr>`)
}

func runningXML(corner Corner) []byte {
	root := "w:hdr"
	if !corner.Upper() {
		root = "w:ftr"
	}
	jc := "left"
	if corner.Right() {
		jc = "right"
	}
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<` + root + ` xmlns:w="` + nsW + `" xmlns:r="` + nsR + `">`)
	b.raw(`<w:p><w:pPr><w:jc w:val="` + jc + `"/></w:pPr>`)
	b.raw(`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
	b.raw(`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`)
	b.raw(`<w:r><w:fldChar w:fldCharType="separate"/></w:r>`)
	b.raw(`<w:r><w:t>1</w:t></w:r>`)
	b.raw(`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
	b.raw(`</w:p></` + root + `>`)
	return b.Bytes()
}

func styles(opts Options) []byte {
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<w:styles xmlns:w="` + nsW + `"><w:docDefaults><w:rPrDefault><w:rPr>`)
	writeFonts(&b, opts)
	b.raw(`<w:lang w:val="en-US"/></w:rPr></w:rPrDefault>`)
	b.raw(`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)
	b.raw(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/><w:rPr>`)
	writeFonts(&b, opts)
	b.raw(`</w:rPr></w:style></w:styles>`)
	return b.Bytes()
}

func writeFonts(b *xmlBuf, opts Options) {
	b.raw(`<w:rFonts`)
	for _, a := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		b.attr(a, opts.Font)
	}
	sz := strconv.Itoa(halfPoints(opts.SizePt))
	b.raw(`/><w:sz w:val="` + sz + `"/><w:szCs w:val="` + sz + `"/>`)
}

func settings() []byte {
	return []byte(xmlHeader + `<w:settings xmlns:w="` + nsW + `"><w:defaultTabStop w:val="720"/>` +
		`<w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat></w:settings>`)
}

func contentTypes(runningPart, runningCT string) []byte {
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<Types xmlns="` + nsCT + `">`)
	b.raw(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.raw(`<Default Extension="xml" ContentType="application/xml"/>`)
	overrides := [][2]string{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"},
		{"/" + runningPart, runningCT},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	}
	for _, o := range overrides {
		b.raw(`<Override`)
		b.attr("PartName", o[0])
		b.attr("ContentType", o[1])
		b.raw(`/>`)
	}
	b.raw(`</Types>`)
	return b.Bytes()
}

func packageRels() []byte {
	return relationships([][3]string{
		{"rId1", relDoc, "word/document.xml"},
		{"rId2", relCore, "docProps/core.xml"},
		{"rId3", relApp, "docProps/app.xml"},
	})
}

func documentRels(runningRel, runningTarget string) []byte {
	return relationships([][3]string{
		{"rId1", relStyles, "styles.xml"},
		{"rId2", relSettings, "settings.xml"},
		{"rId3", runningRel, runningTarget},
	})
}

func relationships(rels [][3]string) []byte {
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<Relationships xmlns="` + nsRel + `">`)
	for _, r := range rels {
		b.raw(`<Relationship`)
		b.attr("Id", r[0])
		b.attr("Type", r[1])
		b.attr("Target", r[2])
		b.raw(`/>`)
	}
	b.raw(`</Relationships>`)
	return b.Bytes()
}

func coreProps(meta doctree.Metadata) []byte {
	var b xmlBuf
	b.raw(xmlHeader)
	b.raw(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.raw(`<dc:title>`)
	b.text(meta.Title)
	b.raw(`</dc:title><dc:creator>`)
	b.text(meta.Author)
	b.raw(`</dc:creator></cp:coreProperties>`)
	return b.Bytes()
}

func appProps() []byte {
	return []byte(xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>playfmt</Application></Properties>`)
}
