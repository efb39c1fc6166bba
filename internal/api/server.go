package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/playfmt/internal/config"
	"github.com/dgallion1/playfmt/internal/pipeline"
	"github.com/dgallion1/playfmt/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for playfmt.
type Server struct {
	router chi.Router
	pipe   *pipeline.Pipeline
	stats  *stats.Latency
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. lat may be nil.
func NewServer(pipe *pipeline.Pipeline, lat *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		pipe:  pipe,
		stats: lat,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/example", s.handleExample)
		r.Post("/api/preview", s.handlePreview)
		r.Post("/api/format", s.handleFormat)
		r.Post("/api/import", s.handleImport)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
