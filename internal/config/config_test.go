package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/playfmt/internal/render"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "PLAYFMT_API_KEY", "MAX_UPLOAD_BYTES", "PLAYFMT_FONT", "PLAYFMT_FONT_SIZE",
		"PLAYFMT_PAGE_NUMBERS", "PLAYFMT_END_MARKER", "PDF_FALLBACK_PDFTOTEXT", "STATS_WINDOW",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "PLAYFMT_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.Render.Font != "Times New Roman" || cfg.Render.SizePt != 12 {
		t.Errorf("unexpected typography defaults: %+v", cfg.Render)
	}
	if cfg.Render.PageNumbers != render.UpperRight {
		t.Errorf("expected upper-right page numbers, got %q", cfg.Render.PageNumbers)
	}
	if !cfg.EndMarker || !cfg.Cover.Copyright {
		t.Error("expected end marker and cover lines enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PLAYFMT_API_KEY", "secret")
	t.Setenv("PLAYFMT_FONT", "Courier New")
	t.Setenv("PLAYFMT_FONT_SIZE", "11")
	t.Setenv("PLAYFMT_PAGE_NUMBERS", "bottom left")
	t.Setenv("PLAYFMT_END_MARKER", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("STATS_WINDOW", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.APIKey != "secret" {
		t.Errorf("unexpected port/key: %q %q", cfg.Port, cfg.APIKey)
	}
	if cfg.Render.Font != "Courier New" || cfg.Render.SizePt != 11 {
		t.Errorf("unexpected typography: %+v", cfg.Render)
	}
	if cfg.Render.PageNumbers != render.LowerLeft {
		t.Errorf("expected lower-left, got %q", cfg.Render.PageNumbers)
	}
	if cfg.EndMarker {
		t.Error("expected end marker disabled")
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("invalid env should keep default, got %d", cfg.MaxUploadBytes)
	}
	if cfg.StatsWindow != 5*time.Minute {
		t.Errorf("expected 5m window, got %v", cfg.StatsWindow)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "playfmt.yaml")
	body := `port: "7000"
render:
  font: Georgia
  page_numbers: lower-right
cover:
  draft: false
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLAYFMT_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("env should override file, got %q", cfg.Port)
	}
	if cfg.Render.Font != "Georgia" || cfg.Render.PageNumbers != render.LowerRight {
		t.Errorf("file values not applied: %+v", cfg.Render)
	}
	if cfg.Render.SizePt != 12 {
		t.Errorf("absent keys keep defaults, got size %v", cfg.Render.SizePt)
	}
	if cfg.Cover.Draft || !cfg.Cover.Contact {
		t.Errorf("unexpected cover flags: %+v", cfg.Cover)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.Log.Level)
	}
}

func TestLoadWith_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := LoadWith(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_BadCorner(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLAYFMT_PAGE_NUMBERS", "middle")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "page number") {
		t.Fatalf("expected page number error, got %v", err)
	}
}
