// Package pipeline runs the formatting stages end to end: classify, build,
// render. It also imports existing scripts back into plain text.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/playfmt/internal/builder"
	"github.com/dgallion1/playfmt/internal/classify"
	"github.com/dgallion1/playfmt/internal/doctree"
	"github.com/dgallion1/playfmt/internal/parser"
	"github.com/dgallion1/playfmt/internal/render"
	"github.com/dgallion1/playfmt/internal/stats"
)

// ErrUnsupportedOutput is returned for an unknown artifact format.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// Output names an artifact format.
type Output string

const (
	OutputDOCX Output = "docx"
	OutputPDF  Output = "pdf"
)

// ParseOutput accepts "docx" or "pdf" in any case; empty means docx.
func ParseOutput(s string) (Output, error) {
	switch o := Output(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OutputDOCX, nil
	case OutputDOCX, OutputPDF:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, s)
}

// Options configures a Pipeline.
type Options struct {
	Render               render.Options
	Builder              builder.Options
	PDFFallbackPdftotext bool
	// Stats receives one latency sample per operation when non-nil.
	Stats *stats.Latency
}

// Request is one formatting call.
type Request struct {
	Meta   doctree.Metadata
	Text   string
	Output Output
}

// Result pairs the document with its rendered artifact.
type Result struct {
	Document    *doctree.Document
	Artifact    []byte
	ContentType string
	Extension   string
	Preview     string
	ContentHash string
}

// PreviewResult is the on-screen form of a script.
type PreviewResult struct {
	Document *doctree.Document
	Text     string
	HTML     string
	Pages    int
}

// Imported is a script recovered from an existing file.
type Imported struct {
	Meta   doctree.Metadata
	Script string
	Lines  int
}

// Pipeline is safe for concurrent use; every call works on its own document.
type Pipeline struct {
	opts Options
	log  *slog.Logger
}

func New(cfg Options, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Pipeline{opts: cfg, log: log.With("component", "pipeline")}
}

// Document classifies text and assembles it with meta. Metadata is not
// validated here.
func (p *Pipeline) Document(meta doctree.Metadata, text string) *doctree.Document {
	return builder.Build(meta, classify.ClassifyText(text), p.opts.Builder)
}

// Format runs the full pipeline and renders the requested artifact.
func (p *Pipeline) Format(ctx context.Context, req Request) (res *Result, err error) {
	out, err := ParseOutput(string(req.Output))
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { p.record(string(out), start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := p.Document(req.Meta, req.Text)
	built := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	res = &Result{Document: doc, Extension: string(out)}
	switch out {
	case OutputPDF:
		err = render.PDF(doc, p.opts.Render, &buf)
		res.ContentType = render.PDFContentType
	default:
		err = render.DOCX(doc, p.opts.Render, &buf)
		res.ContentType = render.DOCXContentType
	}
	if err != nil {
		p.log.Error("render failed", "output", out, "error", err)
		return nil, fmt.Errorf("render %s: %w", out, err)
	}

	res.Artifact = buf.Bytes()
	res.ContentHash = ContentHashHex(res.Artifact)
	res.Preview = render.Preview(doc, render.PreviewFor(p.opts.Render))

	p.log.Info("formatted",
		"output", out,
		"title", req.Meta.Title,
		"paragraphs", len(doc.Body),
		"bytes", len(res.Artifact),
		"build_ms", built.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Preview builds the document and renders the text and HTML previews.
func (p *Pipeline) Preview(ctx context.Context, meta doctree.Metadata, text string) (res *PreviewResult, err error) {
	start := time.Now()
	defer func() { p.record("preview", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := p.Document(meta, text)
	popts := render.PreviewFor(p.opts.Render)
	htmlOut, err := render.HTMLPreview(doc, popts)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Document: doc,
		Text:     render.Preview(doc, popts),
		HTML:     htmlOut,
		Pages:    render.PageCount(doc, popts),
	}, nil
}

// Import parses an existing file back into script text. With guess set, the
// title page is mined for metadata and dropped from the script.
func (p *Pipeline) Import(ctx context.Context, r io.Reader, filename string, guess bool) (res *Imported, err error) {
	start := time.Now()
	defer func() { p.record("import", start, err) }()

	prs, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pp, ok := prs.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = p.opts.PDFFallbackPdftotext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := prs.Parse(r, filename)
	if err != nil {
		p.log.Warn("import parse failed", "filename", filename, "error", err)
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	lines := src.Lines
	res = &Imported{}
	if guess {
		raw := make([]classify.RawLine, len(lines))
		for i, l := range lines {
			raw[i] = classify.RawLine{Index: i, Text: l}
		}
		meta, bodyStart := builder.GuessMetadata(raw)
		if meta.Title == "" {
			meta.Title = src.Title
		}
		res.Meta = meta
		if bodyStart > 0 && bodyStart < len(lines) {
			lines = lines[bodyStart:]
		}
	}
	res.Script = strings.TrimSpace(strings.Join(lines, "\n"))
	res.Lines = len(lines)

	p.log.Info("imported", "filename", filename, "lines", res.Lines, "guess", guess)
	return res, nil
}

func (p *Pipeline) record(op string, start time.Time, err error) {
	if p.opts.Stats != nil {
		p.opts.Stats.Record(op, time.Since(start), err)
	}
}
