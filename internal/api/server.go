// ABOUTME: HTTP server wiring for the focusflow API
// ABOUTME: Registers routes and manages the serve/shutdown lifecycle

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/store"
)

// Config holds the API server configuration.
type Config struct {
	Addr            string
	Cookie          auth.CookieSettings
	ShutdownTimeout time.Duration
}

// Server serves the focusflow HTTP API.
type Server struct {
	store      store.Store
	authSvc    *auth.Service
	verifier   *auth.JWTVerifier
	config     Config
	logger     *slog.Logger
	httpServer *http.Server

	// now is swappable for tests; streak and challenge math depend on it
	now func() time.Time
}

// New creates a Server and registers all routes.
func New(s store.Store, authSvc *auth.Service, verifier *auth.JWTVerifier, cfg Config) *Server {
	srv := &Server{
		store:    s,
		authSvc:  authSvc,
		verifier: verifier,
		config:   cfg,
		logger:   slog.Default().With("component", "api"),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	srv.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Public routes (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /auth/status", s.handleAuthStatus)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	// List records
	mux.HandleFunc("GET /tasks", s.protected(s.handleGetTasks))
	mux.HandleFunc("PUT /tasks", s.protected(s.handlePutTasks))
	mux.HandleFunc("GET /tags", s.protected(s.handleGetTags))
	mux.HandleFunc("PUT /tags", s.protected(s.handlePutTags))
	mux.HandleFunc("DELETE /tags/{id}", s.protected(s.handleDeleteTag))
	mux.HandleFunc("GET /sessions", s.protected(s.handleGetSessions))
	mux.HandleFunc("PUT /sessions", s.protected(s.handlePutSessions))

	// Object records
	mux.HandleFunc("GET /settings", s.protected(s.handleGetSettings))
	mux.HandleFunc("PUT /settings", s.protected(s.handlePutSettings))
	mux.HandleFunc("GET /challenge", s.protected(s.handleGetChallenge))
	mux.HandleFunc("PUT /challenge", s.protected(s.handlePutChallenge))
	mux.HandleFunc("GET /draft", s.protected(s.handleGetDraft))
	mux.HandleFunc("PUT /draft", s.protected(s.handlePutDraft))

	// Derived analytics
	mux.HandleFunc("GET /stats/streaks", s.protected(s.handleStatsStreaks))
	mux.HandleFunc("GET /stats/challenge", s.protected(s.handleStatsChallenge))

	s.logger.Info("api routes registered")
}

// protected wraps a handler with the session middleware.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return auth.RequireSession(s.verifier, next)
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails. Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// Fresh context for shutdown since the run context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}
