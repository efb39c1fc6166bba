// Package render projects a doctree.Document into a DOCX or PDF artifact and
// into plain-text and HTML previews. Every projection follows the same
// typographic policy: one font family, one size, italics per span, no bold,
// page numbers on script-body pages only.
package render

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rendering.
var (
	ErrRender         = errors.New("render failed")
	ErrInvalidOptions = errors.New("invalid render options")
)

// Corner is where the running page number is placed.
type Corner string

const (
	UpperRight Corner = "upper-right"
	UpperLeft  Corner = "upper-left"
	LowerRight Corner = "lower-right"
	LowerLeft  Corner = "lower-left"
)

// ParseCorner accepts the corner names case-insensitively, with "top" and
// "bottom" as synonyms for "upper" and "lower".
func ParseCorner(s string) (Corner, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("top", "upper", "bottom", "lower", "_", "-", " ", "-").Replace(s)
	switch c := Corner(s); c {
	case UpperRight, UpperLeft, LowerRight, LowerLeft:
		return c, nil
	case "":
		return UpperRight, nil
	}
	return "", fmt.Errorf("%w: unknown page number position %q", ErrInvalidOptions, s)
}

// Upper reports whether the number sits in the page header.
func (c Corner) Upper() bool { return c == UpperRight || c == UpperLeft }

// Right reports whether the number is right-aligned.
func (c Corner) Right() bool { return c == UpperRight || c == LowerRight }

// Options is the typographic configuration. It is passed by value and never
// modified by the renderers.
type Options struct {
	Font         string  `yaml:"font"`
	SizePt       float64 `yaml:"size_pt"`
	MarginIn     float64 `yaml:"margin_in"`
	PageWidthIn  float64 `yaml:"page_width_in"`
	PageHeightIn float64 `yaml:"page_height_in"`
	PageNumbers  Corner  `yaml:"page_numbers"`
}

// DefaultOptions is Times New Roman 12 pt on US Letter with one inch margins
// and page numbers in the upper right.
func DefaultOptions() Options {
	return Options{
		Font:         "Times New Roman",
		SizePt:       12,
		MarginIn:     1,
		PageWidthIn:  8.5,
		PageHeightIn: 11,
		PageNumbers:  UpperRight,
	}
}

// Validate checks that the options describe a printable page.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Font) == "" {
		return fmt.Errorf("%w: font is required", ErrInvalidOptions)
	}
	if o.SizePt <= 0 || o.SizePt > 72 {
		return fmt.Errorf("%w: font size %.1fpt out of range", ErrInvalidOptions, o.SizePt)
	}
	if o.PageWidthIn <= 0 || o.PageHeightIn <= 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidOptions)
	}
	if o.MarginIn < 0 || 2*o.MarginIn >= o.PageWidthIn || 2*o.MarginIn >= o.PageHeightIn {
		return fmt.Errorf("%w: margin %.2fin does not fit the page", ErrInvalidOptions, o.MarginIn)
	}
	if _, err := ParseCorner(string(o.PageNumbers)); err != nil {
		return err
	}
	return nil
}

// twips converts inches to twentieths of a point.
func twips(in float64) int { return int(in*1440 + 0.5) }

// halfPoints converts a point size to the half-point unit used by WordprocessingML.
func halfPoints(pt float64) int { return int(pt*2 + 0.5) }
