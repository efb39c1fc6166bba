package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestTextParser_LinesKeptAsWritten(t *testing.T) {
	input := "KATHRYN\r\nReady?\r\n\r\n\r\n(RICHARD nods.)"
	p := &TextParser{}
	src, err := p.Parse(strings.NewReader(input), "game_talk.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.Title != "game_talk" {
		t.Errorf("expected title %q, got %q", "game_talk", src.Title)
	}
	want := []string{"KATHRYN", "Ready?", "", "", "(RICHARD nods.)"}
	if len(src.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(src.Lines), src.Lines)
	}
	for i, w := range want {
		if src.Lines[i] != w {
			t.Errorf("line[%d]: expected %q, got %q", i, w, src.Lines[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	src, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", src.Title)
	}
	if len(src.Lines) != 0 {
		t.Errorf("expected 0 lines for empty input, got %d", len(src.Lines))
	}
}

func TestTextParser_StripsByteOrderMark(t *testing.T) {
	p := &TextParser{}
	src, err := p.Parse(strings.NewReader("\ufeffKATHRYN\nHi."), "bom.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Lines[0] != "KATHRYN" {
		t.Errorf("expected BOM stripped, got %q", src.Lines[0])
	}
	if src.Text() != "KATHRYN\nHi." {
		t.Errorf("unexpected Text(): %q", src.Text())
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"play.txt", "*parser.TextParser"},
		{"play.fountain", "*parser.TextParser"},
		{"play.TEXT", "*parser.TextParser"},
		{"play.md", "*parser.MarkdownParser"},
		{"play.htm", "*parser.HTMLParser"},
		{"play.docx", "*parser.DOCXParser"},
		{"play.pdf", "*parser.PDFParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("IsSupportedExtension(%q) = false", tt.filename)
		}
	}

	_, err := ForFile("data.csv")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("noext") {
		t.Error("expected unsupported for file without extension")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *TextParser:
		return "*parser.TextParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	case *PDFParser:
		return "*parser.PDFParser"
	}
	return "unknown"
}
