// Package paginate estimates where page breaks fall in the script body so that
// previews can show numbered pages. The estimate counts wrapped lines against a
// fixed page budget; the binary renderers let the word processor or PDF engine
// paginate for real.
package paginate

import "github.com/dgallion1/playfmt/internal/doctree"

// Config controls page packing.
type Config struct {
	Columns      int // characters per line
	LinesPerPage int // body lines per page, excluding the running header
}

// DefaultConfig matches 12 pt type on US Letter with one inch margins.
func DefaultConfig() Config {
	return Config{
		Columns:      65,
		LinesPerPage: 46,
	}
}

// Block is the part of one paragraph that lands on a page.
type Block struct {
	Index     int // paragraph index in the input slice
	Lines     []string
	Spaced    bool // preceded by a blank spacing line
	Continued bool // continues a paragraph split at the previous page break
}

// Page is one numbered body page.
type Page struct {
	Number int
	Blocks []Block
}

// Paginate packs paragraphs into pages. textOf renders a paragraph to the
// string that is wrapped; nil means Paragraph.Text.
func Paginate(paras []doctree.Paragraph, cfg Config, textOf func(doctree.Paragraph) string) []Page {
	def := DefaultConfig()
	if cfg.Columns <= 0 {
		cfg.Columns = def.Columns
	}
	if cfg.LinesPerPage <= 0 {
		cfg.LinesPerPage = def.LinesPerPage
	}
	if textOf == nil {
		textOf = doctree.Paragraph.Text
	}

	var pages []Page
	current := Page{Number: 1}
	used := 0

	flush := func() {
		pages = append(pages, current)
		current = Page{Number: current.Number + 1}
		used = 0
	}

	for i, p := range paras {
		lines := Wrap(textOf(p), cfg.Columns)
		spaced := i > 0 && paras[i-1].Role != doctree.CharacterCue

		cost := len(lines)
		if spaced && used > 0 {
			cost++
		}

		// Keep small paragraphs whole; move them to the next page.
		if used > 0 && used+cost > cfg.LinesPerPage && len(lines) <= cfg.LinesPerPage {
			flush()
		}

		continued := false
		for len(lines) > 0 {
			room := cfg.LinesPerPage - used
			space := spaced && used > 0 && !continued
			if space {
				room--
			}
			if room <= 0 {
				flush()
				continue
			}
			n := min(room, len(lines))
			current.Blocks = append(current.Blocks, Block{
				Index:     i,
				Lines:     lines[:n],
				Spaced:    space,
				Continued: continued,
			})
			used += n
			if space {
				used++
			}
			lines = lines[n:]
			if len(lines) > 0 {
				flush()
				continued = true
			}
		}
	}

	if len(current.Blocks) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages
}
