package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_BlocksAndBreaks(t *testing.T) {
	input := `<html><head><title>Game Talk</title><style>p{}</style></head>
<body>
<p>KATHRYN<br>Ready?</p>
<p><i>(RICHARD   nods.)</i></p>
<script>ignored()</script>
</body></html>`
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "Game Talk" {
		t.Errorf("expected title from <title>, got %q", src.Title)
	}
	want := []string{"KATHRYN", "Ready?", "", "(RICHARD nods.)"}
	if strings.Join(src.Lines, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected lines:\n got %q\nwant %q", src.Lines, want)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader("<p>hello</p>"), "draft.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "draft" {
		t.Errorf("expected title %q, got %q", "draft", src.Title)
	}
}
