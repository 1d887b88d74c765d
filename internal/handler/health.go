// Package handler contains the HTTP request handlers.
//
// WHAT IS A HANDLER?
// Anything that implements http.Handler:
//
//	type Handler interface {
//	    ServeHTTP(ResponseWriter, *Request)
//	}
//
// Most of ours are methods with the http.HandlerFunc signature, grouped on a
// struct that holds their dependencies. Chi accepts them directly.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (path params, body, cookies)
//  2. Call the service layer
//  3. Write the response (status code, headers, JSON body)
//
// Business rules live in the service layer, not here.
package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness routes.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleRoot answers GET / so a browser or uptime check can see the server
// is up. It does not touch the database.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}

// HandleHealth answers GET /health with 200 when the database responds and
// 503 when it does not.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
