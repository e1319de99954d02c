package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/actdiff/internal/config"
	"github.com/dgallion1/actdiff/internal/pipeline"
)

// Server is the HTTP server for actdiff: the browser upload/results UI
// plus a JSON API mirroring it.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
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

	r.Get("/health", s.handleHealth)

	// Browser UI. Stays open even when the JSON API requires a key:
	// exports are fetched by the browser from the results page.
	r.Get("/", s.handleIndex)
	r.Post("/compare", s.handleCompareForm)
	r.Get("/compare/{jobID}", s.handleComparePage)
	r.Get("/compare/{jobID}/export/{format}", s.handleExport)

	// JSON API.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/compare", s.handleCompareAPI)
		r.Get("/api/compare/{jobID}", s.handleCompareStatus)
		r.Get("/api/compare/{jobID}/export/{format}", s.handleExport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
