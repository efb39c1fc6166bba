package pipeline

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/playfmt/internal/doctree"
)

// Metadata validation errors. The formatter itself accepts empty values; the
// CLI and HTTP layers call ValidateMetadata before formatting.
var (
	ErrMissingTitle  = errors.New("play title is required")
	ErrMissingAuthor = errors.New("author is required")
)

// ValidateMetadata reports every missing required field.
func ValidateMetadata(meta doctree.Metadata) error {
	var errs []error
	if strings.TrimSpace(meta.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if strings.TrimSpace(meta.Author) == "" {
		errs = append(errs, ErrMissingAuthor)
	}
	return errors.Join(errs...)
}

const defaultSlug = "my_play"

var (
	slugSpace  = regexp.MustCompile(`\s+`)
	slugUnsafe = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	slugRepeat = regexp.MustCompile(`_+`)
)

// Slugify lower-cases s and turns whitespace into underscores, dropping
// anything unsafe in a filename.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpace.ReplaceAllString(s, "_")
	s = slugUnsafe.ReplaceAllString(s, "")
	s = slugRepeat.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")
	if r := []rune(s); len(r) > 50 {
		s = strings.TrimRight(string(r[:50]), "_-")
	}
	return s
}

// Filename is the download name for a play: slug of the title plus ext.
func Filename(title string, ext string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = defaultSlug
	}
	return slug + "." + strings.TrimPrefix(ext, ".")
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
