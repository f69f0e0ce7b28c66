// Package server serves an exported catalog directory over HTTP, with
// the JSON content negotiation the viewer depends on and an optional
// live-reload channel for local catalog development.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds catalog server configuration.
type Config struct {
	Port     int
	Dir      string // exported catalog directory
	AllowAll bool   // allow all CORS origins (dev mode)
	Watch    bool   // enable the /livereload websocket endpoint
}

// Server serves a static catalog.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
	reload     *reloadHub
}

// New creates a catalog server for cfg.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}
	if cfg.Watch {
		s.reload = newReloadHub()
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// The catalog is read cross-origin by embedding portals.
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.reload != nil {
		r.Get("/livereload", s.reload.handleWS)
	}

	r.Get("/*", s.serveCatalogFile)

	return r
}

// serveCatalogFile serves one file from the catalog directory. The
// object files carry no extension, so the json=yes flag (and the known
// lookup files) force an application/json content type.
func (s *Server) serveCatalogFile(w http.ResponseWriter, r *http.Request) {
	rel := path.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if rel == "." || rel == "" {
		rel = "dataset.html"
	}
	if strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}

	if r.URL.Query().Get("json") == "yes" || isJSONPath(rel) {
		w.Header().Set("Content-Type", "application/json")
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.Dir, filepath.FromSlash(rel)))
}

// isJSONPath reports whether the catalog path always holds JSON.
func isJSONPath(rel string) bool {
	return rel == "by_path.json" || rel == "by_id.json" || strings.HasPrefix(rel, "objs/")
}

// Start begins listening on the configured port, and starts the
// catalog watcher when watch mode is on. It blocks until the server
// stops.
func (s *Server) Start() error {
	if s.reload != nil {
		stop, err := s.reload.watch(s.cfg.Dir)
		if err != nil {
			return fmt.Errorf("starting catalog watcher: %w", err)
		}
		defer stop()
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("dscat serving catalog %s on %s", s.cfg.Dir, addr)
	return s.httpServer.ListenAndServe()
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
