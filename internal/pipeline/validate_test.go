package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/playfmt/internal/doctree"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestValidateMetadata(t *testing.T) {
	if err := ValidateMetadata(doctree.Metadata{Title: "Hamlet", Author: "W.S."}); err != nil {
		t.Fatalf("expected valid metadata, got %v", err)
	}

	err := ValidateMetadata(doctree.Metadata{Title: "  "})
	if !errors.Is(err, ErrMissingTitle) || !errors.Is(err, ErrMissingAuthor) {
		t.Fatalf("expected both errors, got %v", err)
	}

	err = ValidateMetadata(doctree.Metadata{Title: "Hamlet"})
	if errors.Is(err, ErrMissingTitle) || !errors.Is(err, ErrMissingAuthor) {
		t.Fatalf("expected only missing author, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"GAME TALK", "game_talk"},
		{"  The  Long   Night ", "the_long_night"},
		{"Who's Afraid of Virginia Woolf?", "whos_afraid_of_virginia_woolf"},
		{"../../etc/passwd", "etcpasswd"},
		{"Café Müller", "café_müller"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Slugify(strings.Repeat("a", 80)); len(got) != 50 {
		t.Errorf("expected slug capped at 50, got %d", len(got))
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("GAME TALK", "docx"); got != "game_talk.docx" {
		t.Errorf("expected game_talk.docx, got %q", got)
	}
	if got := Filename("", ".pdf"); got != "my_play.pdf" {
		t.Errorf("expected my_play.pdf, got %q", got)
	}
	if got := Filename("???", "docx"); got != "my_play.docx" {
		t.Errorf("expected fallback for unsafe title, got %q", got)
	}
}
