package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const script = "KATHRYN\nReady?\n\n(RICHARD nods.)\n"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PLAYFMT_CONFIG", "PLAYFMT_PAGE_NUMBERS", "PLAYFMT_FONT", "LOG_FILE"} {
		t.Setenv(k, "")
	}
}

func TestRun_WritesDOCXNextToInput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "game.txt")
	if err := os.WriteFile(in, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--title", "GAME TALK", "--author", "Lindsey Salatka", in}, nil, &stdout, &stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	out := filepath.Join(dir, "game_FORMATTED.docx")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("output is not a docx: %v", err)
	}
	if !strings.Contains(stderr.String(), "wrote") {
		t.Errorf("expected summary on stderr, got %q", stderr.String())
	}
}

func TestRun_PDFFromOutputExtension(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "play.pdf")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--title", "T", "--author", "A", "-o", out, "-"}, strings.NewReader(script), &stdout, &stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected PDF output")
	}
}

func TestRun_MissingMetadataIsUsageError(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", "-", "-"}, strings.NewReader(script), &stdout, &stderr)
	if code != exitUsage {
		t.Fatalf("expected exit 2, got %d", code)
	}
	msg := stderr.String()
	if !strings.Contains(msg, "title") || !strings.Contains(msg, "author") {
		t.Errorf("expected both fields reported, got %q", msg)
	}
	if stdout.Len() != 0 {
		t.Error("nothing should be written on validation failure")
	}
}

func TestRun_PreviewSkipsValidation(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--preview", "-"}, strings.NewReader(script), &stdout, &stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "KATHRYN") || !strings.Contains(stdout.String(), "_(RICHARD nods.)_") {
		t.Errorf("unexpected preview: %q", stdout.String())
	}
}

func TestRun_GuessFillsMetadata(t *testing.T) {
	clearEnv(t)
	input := "GAME TALK\n\nBy\nLindsey Salatka\n\n" + script
	var stdout, stderr bytes.Buffer
	code := run([]string{"--guess", "-o", "-", "-"}, strings.NewReader(input), &stdout, &stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !bytes.HasPrefix(stdout.Bytes(), []byte("PK")) {
		t.Error("expected docx on stdout")
	}
}

func TestRun_UsageErrors(t *testing.T) {
	clearEnv(t)
	tests := [][]string{
		{},
		{"a.txt", "b.txt"},
		{"--bogus", "a.txt"},
		{"--title", "T", "--author", "A", "--format", "odt", "-"},
		{"play.odt"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, strings.NewReader(script), &stdout, &stderr); code != exitUsage {
			t.Errorf("run(%q) = %d, want %d (stderr %q)", args, code, exitUsage, stderr.String())
		}
	}
}

func TestRun_MissingFileIsGeneralError(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--title", "T", "--author", "A", filepath.Join(t.TempDir(), "none.txt")}, nil, &stdout, &stderr)
	if code != exitGeneral {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--help"}, nil, &stdout, &stderr); code != exitSuccess {
		t.Fatalf("expected exit 0 for --help, got %d", code)
	}
}
