// Package server exposes stored diagrams over HTTP: a JSON API for
// management, rendered SVG snapshots, viewer pages, and a websocket per
// diagram carrying the pointer-event contract.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/genomeviz/exonview/internal/diagram"
	"github.com/genomeviz/exonview/internal/viewer"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool          // allow all CORS origins (dev mode)
	Timeout  time.Duration // per-request timeout for non-websocket routes; 60s when zero
}

// Server is the exonview diagram server.
type Server struct {
	cfg        Config
	store      *diagram.Store
	sessions   *diagram.Manager
	pages      *viewer.Renderer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given store and session manager.
func New(cfg Config, store *diagram.Store, sessions *diagram.Manager, pages *viewer.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		pages:    pages,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	timeout := s.cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// Health check
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Get("/api/diagrams", s.handleListDiagrams)
		r.Post("/api/diagrams", s.handleCreateDiagram)
		r.Get("/api/diagrams/{id}", s.handleGetDiagram)
		r.Delete("/api/diagrams/{id}", s.handleDeleteDiagram)
		r.Get("/api/diagrams/{id}/events", s.handleListEvents)

		r.Get("/diagrams/{id}.svg", s.handleDiagramSVG)
		r.Get("/diagrams/{id}", s.handleViewerPage)
	})

	// Websocket connections are long-lived and their watcher goroutine is
	// tied to the request context, so this route must not carry the
	// per-request timeout.
	r.Get("/ws/diagrams/{id}", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("exonview server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
