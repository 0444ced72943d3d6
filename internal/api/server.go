package api

import (
	"log/slog"
	"net/http"

	"github.com/esg-tools/esgest/internal/config"
	"github.com/esg-tools/esgest/internal/embed"
	"github.com/esg-tools/esgest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for esgest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	embedStats   *embed.Stats
	embedModel   string
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. embedStats may be nil
// when no embedding provider is configured.
func NewServer(orch *pipeline.Orchestrator, embedStats *embed.Stats, embedModel string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		embedStats:   embedStats,
		embedModel:   embedModel,
		log:          log,
		cfg:          cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Get("/api/documents/{docName}/manifest", s.handleManifest)
		r.Get("/api/stats/embed", s.handleEmbedStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
