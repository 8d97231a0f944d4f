// Package dashboard serves a read-only HTTP view of signal history and the
// open position.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"nifty-condor-bot/internal/recorder"
	"nifty-condor-bot/internal/storage"
)

// Config holds dashboard server settings.
type Config struct {
	Port      int
	AuthToken string
}

// Server exposes signals and position state over HTTP. It never mutates
// anything: all endpoints are GETs.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	store     storage.Store
	rec       recorder.Recorder
	logger    *logrus.Logger
	port      int
	authToken string
}

// NewServer wires the routes against the given store and recorder.
func NewServer(cfg Config, store storage.Store, rec recorder.Recorder, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		router:    chi.NewRouter(),
		store:     store,
		rec:       rec,
		logger:    logger,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/signals", s.handleListSignals)
	s.router.Get("/api/signals/latest", s.handleLatestSignal)
	s.router.Get("/api/position", s.handlePosition)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting dashboard server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.rec.ListSignals(limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list signals")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []recorder.SignalRow{}
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleLatestSignal(w http.ResponseWriter, _ *http.Request) {
	row, err := s.rec.LatestSignal()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load latest signal")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "no signals recorded", http.StatusNotFound)
		return
	}
	s.writeJSON(w, row)
}

func (s *Server) handlePosition(w http.ResponseWriter, _ *http.Request) {
	pos, err := s.store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoPosition) {
			http.Error(w, "no open position", http.StatusNotFound)
			return
		}
		s.logger.WithError(err).Error("Failed to load position")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, pos)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
