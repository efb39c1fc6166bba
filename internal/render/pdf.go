package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/playfmt/internal/doctree"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

// PDFContentType is the MIME type of the artifact written by PDF.
const PDFContentType = "application/pdf"

// PDF writes doc with gofpdf's core fonts. The configured family is mapped to
// the nearest core font (Times, Helvetica or Courier) so no font files are
// needed. The cover page is unnumbered; body pages count from 1. Core fonts
// are cp1252, so text outside it fails with ErrRender.
func PDF(doc *doctree.Document, opts Options, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := checkPDFText(doc); err != nil {
		return err
	}
	corner := opts.corner()
	family := pdfFamily(opts.Font)
	margin := opts.MarginIn * 72
	lineH := opts.SizePt * 1.2

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: opts.PageWidthIn * 72, Ht: opts.PageHeightIn * 72},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetAuthor(doc.Meta.Author, true)
	pdf.SetCreator("playfmt", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	align := "L"
	if corner.Right() {
		align = "R"
	}
	bodyStart := 0
	pageNumber := func() {
		if bodyStart == 0 || pdf.PageNo() < bodyStart {
			return
		}
		pdf.SetFont(family, "", opts.SizePt)
		pdf.CellFormat(0, lineH, strconv.Itoa(pdf.PageNo()-bodyStart+1), "", 0, align, false, 0, "")
	}
	pdf.SetHeaderFuncMode(func() {
		if corner.Upper() {
			pdf.SetY(margin / 2)
			pageNumber()
		}
	}, true)
	pdf.SetFooterFunc(func() {
		if !corner.Upper() {
			pdf.SetY(-(margin/2 + lineH))
			pageNumber()
		}
	})

	pdf.SetFont(family, "", opts.SizePt)
	pdf.AddPage()
	pdf.SetY(margin + coverOffset/20)
	for _, p := range doc.Cover {
		writePDFParagraph(pdf, tr, family, opts.SizePt, lineH, p)
		pdf.Ln(float64(roleSpacing[doctree.Cover].after) / 20)
	}

	bodyStart = pdf.PageNo() + 1
	pdf.AddPage()
	for i, p := range doc.Body {
		sp := roleSpacing[p.Role]
		if i > 0 && sp.before > 0 {
			pdf.Ln(float64(sp.before) / 20)
		}
		writePDFParagraph(pdf, tr, family, opts.SizePt, lineH, p)
		if sp.after > 0 {
			pdf.Ln(float64(sp.after) / 20)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: write pdf: %v", ErrRender, err)
	}
	return nil
}

func writePDFParagraph(pdf *gofpdf.Fpdf, tr func(string) string, family string, size, lineH float64, p doctree.Paragraph) {
	if p.Text() == "" {
		pdf.Ln(lineH)
		return
	}
	if uniform, italic := uniformEmphasis(p.Spans); uniform {
		pdf.SetFont(family, fontStyle(italic), size)
		pdf.MultiCell(0, lineH, tr(p.Text()), "", pdfAlign(p.Align), false)
		return
	}
	// Mixed emphasis flows left-aligned span by span.
	for _, s := range p.Spans {
		pdf.SetFont(family, fontStyle(s.Italic), size)
		pdf.Write(lineH, tr(s.Text))
	}
	pdf.SetFont(family, "", size)
	pdf.Ln(lineH)
}

// checkPDFText returns the first character the core fonts cannot show.
func checkPDFText(doc *doctree.Document) error {
	for i, p := range doc.Paragraphs() {
		for _, r := range p.Text() {
			if r == '\t' || r == '\n' {
				continue
			}
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				return fmt.Errorf("%w: pdf: character %q (%U) in paragraph %d is not supported by the core fonts", ErrRender, r, r, i+1)
			}
		}
	}
	return nil
}

func uniformEmphasis(spans []doctree.Span) (bool, bool) {
	if len(spans) == 0 {
		return true, false
	}
	first := spans[0].Italic
	for _, s := range spans[1:] {
		if s.Italic != first {
			return false, false
		}
	}
	return true, first
}

func fontStyle(italic bool) string {
	if italic {
		return "I"
	}
	return ""
}

func pdfAlign(a doctree.Alignment) string {
	switch a {
	case doctree.AlignCenter:
		return "C"
	case doctree.AlignRight:
		return "R"
	default:
		return "L"
	}
}

func pdfFamily(font string) string {
	f := strings.ToLower(font)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	case strings.Contains(f, "arial"), strings.Contains(f, "helvetica"), strings.Contains(f, "sans"):
		return "Helvetica"
	default:
		return "Times"
	}
}
