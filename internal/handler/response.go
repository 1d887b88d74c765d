package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// Every body carries a "success" flag. Errors add a human-readable message:
//
//	{"success": false, "message": "Title is required"}
//
// so the client can show the message as a notification without caring which
// status code produced it.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/notes/internal/apperror"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// MessageResponse is the shape of every error and of bodies that carry
// nothing but a confirmation.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE writing the body. Once Encode
// writes, the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeMessage sends {success, message}.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation      → 400, message from the error
//	apperror.ErrUnauthenticated → 401 "Not authenticated"
//	apperror.ErrNotFound        → 404, notFoundMessage
//	apperror.ErrConflict        → 409, message from the error
//	anything else               → 500 "An internal error occurred"
//
// errors.Is walks the wrap chain, so a service that returns
// fmt.Errorf("creating note: %w", apperror.ValidationFailed(...)) still maps
// to 400.
//
// The raw text of an unknown error can contain SQL or file paths. It is
// logged here and never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrValidation) && errors.As(err, &appErr):
		writeMessage(w, http.StatusBadRequest, appErr.Message)
	case errors.Is(err, apperror.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, apperror.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, apperror.ErrConflict) && errors.As(err, &appErr):
		writeMessage(w, http.StatusConflict, appErr.Message)
	default:
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
	}
}

// decodeJSON reads a single JSON value from the body, limited to
// maxBodyBytes. Malformed or oversized bodies are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body",
				fmt.Sprintf("Request body must be %d bytes or less", maxBodyBytes))
		}
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return nil
}
