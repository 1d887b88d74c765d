// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It connects handlers, middleware and
// routes, and decides:
//   - which URL patterns map to which handler functions
//   - what middleware runs on which routes
//   - how the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Config, *slog.Logger, sqlite.DB, auth.Provider → server.New
//
// server.New creates:
//
//	sqlite.DB → AuthService / NoteService → AuthHandler / NoteHandler
//
// This is the composition root: all dependencies are wired in one place
// (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/config"
	"github.com/sakif/notes/internal/handler"
	"github.com/sakif/notes/internal/metrics"
	"github.com/sakif/notes/internal/middleware"
	sqliteRepo "github.com/sakif/notes/internal/repository/sqlite"
	"github.com/sakif/notes/internal/service"
)

// purgeInterval is how often expired sessions are swept from the store.
const purgeInterval = time.Hour

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection and the rate limiter's cleanup
// goroutine. Both are released by Close, which Start calls on shutdown.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	registry *prometheus.Registry
	auth     *service.AuthService
	limiter  *middleware.RateLimiter // nil when rate limiting is disabled
}

// New creates a Server around an open database and an OAuth provider.
//
// The provider is a parameter rather than built here so tests can swap
// Google for a fake; main passes auth.NewGoogleProvider.
//
// IMPORT ALIAS:
// repository/sqlite is imported as sqliteRepo to keep it apart from the
// modernc.org/sqlite driver package.
func New(cfg *config.Config, db *sqliteRepo.DB, provider auth.Provider, logger *slog.Logger) (*Server, error) {
	hasher, err := auth.NewTokenHasher(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token hasher: %w", err)
	}
	signer, err := auth.NewStateSigner(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("creating state signer: %w", err)
	}

	// A private registry keeps repeated New calls (tests) from colliding on
	// the global default registerer.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
	}

	collector := metrics.NewCollector(registry)

	// === SERVICES ===
	s.auth = service.NewAuthService(db.Users(), db.Sessions(), hasher, cfg.SessionTTL, logger)
	noteService := service.NewNoteService(db.Notes(), logger, collector)

	// === HANDLERS ===
	authHandler := handler.NewAuthHandler(provider, signer, s.auth, collector, handler.AuthConfig{
		SuccessURL:   cfg.AuthSuccessURL,
		FailureURL:   cfg.AuthFailureURL,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   s.auth.TTL(),
	}, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	healthHandler := handler.NewHealthHandler(db, logger)

	if cfg.RateLimitPerMinute > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, 5*time.Minute)
	}

	s.setupRoutes(authHandler, noteHandler, healthHandler, collector)

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /                      → liveness message
// GET    /health                → readiness (pings the database)
// GET    /metrics               → Prometheus scrape endpoint
// GET    /auth/google           → redirect to Google consent
// GET    /auth/google/callback  → finish login, set session cookie
// GET    /auth/user             → current user (JSON)
// POST   /auth/logout           → destroy session
// GET    /api/notes             → list own notes        [session required]
// POST   /api/notes             → create note           [session required]
// GET    /api/notes/{id}        → get own note          [session required]
// PUT    /api/notes/{id}        → update own note       [session required]
// DELETE /api/notes/{id}        → delete own note       [session required]
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns an id to each request, read back by Logger
//  2. RealIP: extracts the client IP from proxy headers
//  3. Recoverer: turns panics into 500s
//  4. Logger, Metrics: see the final status of every request
//  5. SecurityHeaders, CORS: response headers, OPTIONS preflight
//
// The session gate runs before the rate limiter so buckets are keyed by
// user, and requests without a session are rejected without touching one.
func (s *Server) setupRoutes(
	authHandler *handler.AuthHandler,
	noteHandler *handler.NoteHandler,
	healthHandler *handler.HealthHandler,
	collector *metrics.Collector,
) {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(collector))
	s.router.Use(middleware.SecurityHeaders)
	s.router.Use(middleware.CORS(s.config.ClientURL))

	// === Public Routes ===
	s.router.Get("/", healthHandler.HandleRoot)
	s.router.Get("/health", healthHandler.HandleHealth)
	s.router.Handle("/metrics", metrics.Handler(s.registry))

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/google", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
		r.Get("/user", authHandler.HandleUser)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// === Protected Routes ===
	s.router.Route("/api/notes", func(r chi.Router) {
		r.Use(auth.RequireSession(s.auth))
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		r.Get("/", noteHandler.HandleList)
		r.Post("/", noteHandler.HandleCreate)
		r.Get("/{id}", noteHandler.HandleGet)
		r.Put("/{id}", noteHandler.HandleUpdate)
		r.Delete("/{id}", noteHandler.HandleDelete)
	})
}

// Handler returns the root http.Handler. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops background work and closes the database.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Stop the session purge loop and the rate limiter
//  4. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go s.purgeLoop(purgeCtx, purgeInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.config.DBPath),
			slog.String("client_url", s.config.ClientURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// purgeLoop removes expired sessions every interval until ctx is done.
// Login also purges opportunistically; this catches idle periods.
func (s *Server) purgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.auth.PurgeExpired(ctx)
			if err != nil {
				s.logger.Warn("purging expired sessions", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				s.logger.Info("purged expired sessions", slog.Int64("count", n))
			}
		}
	}
}
