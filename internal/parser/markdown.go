package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Each block becomes one
// or more lines, soft line breaks start a new line and blocks are separated by
// a blank line. Emphasis markers are dropped.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := &Source{Title: baseTitle(filename)}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		for _, line := range blockLines(n, src) {
			out.Lines = appendLine(out.Lines, line)
		}
		out.Lines = appendLine(out.Lines, "")
	}
	out.Lines = trimTrailingBlank(out.Lines)
	return out, nil
}

// blockLines returns the text lines of a block node.
func blockLines(n ast.Node, src []byte) []string {
	switch n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var lines []string
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			lines = append(lines, strings.TrimRight(string(seg.Value(src)), "\r\n"))
		}
		return lines
	case *ast.ThematicBreak:
		return nil
	}

	if n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline {
		var lines []string
		var cur strings.Builder
		inlineText(n, src, &cur, &lines)
		if s := strings.TrimSpace(cur.String()); s != "" {
			lines = append(lines, s)
		}
		return lines
	}

	// Containers such as lists and block quotes.
	var lines []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		lines = append(lines, blockLines(c, src)...)
	}
	return lines
}

// inlineText walks inline children, splitting at line breaks.
func inlineText(n ast.Node, src []byte, cur *strings.Builder, lines *[]string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			cur.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				*lines = append(*lines, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
		case *ast.String:
			cur.Write(node.Value)
		default:
			inlineText(c, src, cur, lines)
		}
	}
}
