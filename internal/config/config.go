package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/playfmt/internal/builder"
	"github.com/dgallion1/playfmt/internal/logging"
	"github.com/dgallion1/playfmt/internal/render"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth; empty disables bearer checks.
	APIKey string `yaml:"-"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Typography and document assembly
	Render    render.Options     `yaml:"render"`
	Cover     builder.CoverFlags `yaml:"cover"`
	EndMarker bool               `yaml:"end_marker"`

	// Import
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Stats
	StatsWindow time.Duration `yaml:"stats_window"`

	Log logging.Options `yaml:"log"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	opts := builder.DefaultOptions()
	return Config{
		Port:                 "8090",
		MaxUploadBytes:       10 << 20, // 10MB
		Render:               render.DefaultOptions(),
		Cover:                opts.Cover,
		EndMarker:            opts.EndMarker,
		PDFFallbackPdftotext: true,
		StatsWindow:          time.Hour,
		Log:                  logging.Options{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file named by PLAYFMT_CONFIG, if any, then applies
// environment overrides.
func Load() (Config, error) {
	return LoadWith(os.Getenv("PLAYFMT_CONFIG"))
}

// LoadWith is Load with an explicit config file path; empty means none.
func LoadWith(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	return cfg, nil
}

// LoadFile merges the YAML file at path into cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("PLAYFMT_API_KEY", cfg.APIKey)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.Render.Font = envOr("PLAYFMT_FONT", cfg.Render.Font)
	cfg.Render.SizePt = envFloat("PLAYFMT_FONT_SIZE", cfg.Render.SizePt)
	if v := os.Getenv("PLAYFMT_PAGE_NUMBERS"); v != "" {
		cfg.Render.PageNumbers = render.Corner(v)
	}
	if c, err := render.ParseCorner(string(cfg.Render.PageNumbers)); err == nil {
		cfg.Render.PageNumbers = c
	}
	cfg.EndMarker = envBool("PLAYFMT_END_MARKER", cfg.EndMarker)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	cfg.Log.Level = envOr("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = envOr("LOG_FILE", cfg.Log.File)
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render options: %w", err)
	}
	return nil
}

// BuilderOptions is the document assembly part of the configuration.
func (c Config) BuilderOptions() builder.Options {
	return builder.Options{Cover: c.Cover, EndMarker: c.EndMarker}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
