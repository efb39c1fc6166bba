package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/playfmt/internal/api"
	"github.com/dgallion1/playfmt/internal/config"
	"github.com/dgallion1/playfmt/internal/logging"
	"github.com/dgallion1/playfmt/internal/pipeline"
	"github.com/dgallion1/playfmt/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("load configuration", "error", err)
		os.Exit(1)
	}

	log, closer := logging.New(cfg.Log)
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		log.Warn("PLAYFMT_API_KEY not set, API is unauthenticated")
	}

	// Initialize pipeline.
	lat := stats.NewLatency(cfg.StatsWindow)
	pipe := pipeline.New(pipeline.Options{
		Render:               cfg.Render,
		Builder:              cfg.BuilderOptions(),
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
		Stats:                lat,
	}, log)

	// Initialize HTTP server.
	srv := api.NewServer(pipe, lat, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("starting playfmt",
		"port", cfg.Port,
		"font", cfg.Render.Font,
		"size_pt", cfg.Render.SizePt,
		"page_numbers", cfg.Render.PageNumbers,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
