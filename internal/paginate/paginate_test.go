package paginate

import (
	"strings"
	"testing"

	"github.com/dgallion1/playfmt/internal/doctree"
)

func para(role doctree.Role, text string) doctree.Paragraph {
	return doctree.Paragraph{Role: role, Spans: []doctree.Span{{Text: text, Role: role}}}
}

func TestWrap_RespectsWidth(t *testing.T) {
	text := strings.Repeat("word ", 40)
	lines := Wrap(text, 20)
	for i, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %d exceeds width: %q", i, l)
		}
	}
	if got := strings.Join(lines, " "); got != strings.TrimSpace(text) {
		t.Errorf("wrapped text does not rejoin: %q", got)
	}
}

func TestWrap_LongWordHardSplit(t *testing.T) {
	lines := Wrap("a "+strings.Repeat("x", 25), 10)
	want := []string{"a", "xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWrap_Empty(t *testing.T) {
	if got := Wrap("   ", 10); len(got) != 1 || got[0] != "" {
		t.Errorf("expected one empty line, got %q", got)
	}
}

func TestPaginate_SmallBodyFitsOnePage(t *testing.T) {
	paras := []doctree.Paragraph{
		para(doctree.SceneHeader, "Scene One of One"),
		para(doctree.CharacterCue, "KATHRYN"),
		para(doctree.Dialogue, "Ready?"),
	}
	pages := Paginate(paras, DefaultConfig(), nil)
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("expected first body page numbered 1, got %d", pages[0].Number)
	}
	if pages[0].Blocks[0].Lines[0] != "Scene One of One" {
		t.Errorf("expected scene header first, got %q", pages[0].Blocks[0].Lines[0])
	}
	if pages[0].Blocks[0].Spaced {
		t.Error("first block should not be spaced")
	}
	if !pages[0].Blocks[1].Spaced {
		t.Error("cue after header should be spaced")
	}
	if pages[0].Blocks[2].Spaced {
		t.Error("dialogue directly under its cue should not be spaced")
	}
}

func TestPaginate_BreaksAcrossPages(t *testing.T) {
	var paras []doctree.Paragraph
	for range 30 {
		paras = append(paras, para(doctree.CharacterCue, "MARY"), para(doctree.Dialogue, "Yes."))
	}
	cfg := Config{Columns: 40, LinesPerPage: 10}
	pages := Paginate(paras, cfg, nil)
	if len(pages) < 2 {
		t.Fatalf("expected multiple pages, got %d", len(pages))
	}
	seen := 0
	for i, pg := range pages {
		if pg.Number != i+1 {
			t.Errorf("page %d numbered %d", i, pg.Number)
		}
		used := 0
		for _, b := range pg.Blocks {
			used += len(b.Lines)
			if b.Spaced {
				used++
			}
			seen++
		}
		if used > cfg.LinesPerPage {
			t.Errorf("page %d uses %d lines, budget %d", pg.Number, used, cfg.LinesPerPage)
		}
	}
	if seen != len(paras) {
		t.Errorf("expected %d blocks, got %d", len(paras), seen)
	}
}

func TestPaginate_SplitsTallParagraph(t *testing.T) {
	tall := para(doctree.Dialogue, strings.Repeat("long speech ", 100))
	cfg := Config{Columns: 30, LinesPerPage: 8}
	pages := Paginate([]doctree.Paragraph{tall}, cfg, nil)
	if len(pages) < 2 {
		t.Fatalf("expected the paragraph to span pages, got %d", len(pages))
	}
	if !pages[1].Blocks[0].Continued {
		t.Error("expected continuation block on the second page")
	}
	total := 0
	for _, pg := range pages {
		for _, b := range pg.Blocks {
			total += len(b.Lines)
		}
	}
	if want := EstimateLines(tall.Text(), cfg.Columns); total != want {
		t.Errorf("expected %d lines in total, got %d", want, total)
	}
}

func TestPaginate_EmptyStillHasPageOne(t *testing.T) {
	pages := Paginate(nil, DefaultConfig(), nil)
	if len(pages) != 1 || pages[0].Number != 1 || len(pages[0].Blocks) != 0 {
		t.Errorf("expected a single empty page 1, got %+v", pages)
	}
}
