package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/notes/internal/apperror"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue accepts any key. A plain string like "userID" could be
// read or shadowed by any package that knows the string. Only this package can
// create a key of type contextKey, so only this package can read or write the
// user id.
type contextKey string

const userIDKey contextKey = "userID"

// Resolver maps a raw session token to the id of the user it belongs to.
// service.AuthService implements it. Missing, unknown and expired tokens
// must be reported as apperror.ErrUnauthenticated.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireSession is the authorization gate for protected routes.
//
// It reads the session cookie, resolves it, and stores the user id in the
// request context. If there is no valid session it answers 401 and the
// wrapped handler never runs, so no persistence call is made on its behalf.
// A resolver failure that is not an authentication problem (the session
// store is down) answers 500.
//
// MIDDLEWARE PATTERN IN GO:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... before ...
//	        next.ServeHTTP(w, r)
//	        // ... after ...
//	    })
//	}
//
// There are no roles: any resolved user passes.
func RequireSession(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.Resolve(r.Context(), TokenFromRequest(r))
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthenticated) {
					writeGateError(w, http.StatusUnauthorized, "Authentication required")
					return
				}
				slog.Error("resolving session", "error", err, "path", r.URL.Path)
				writeGateError(w, http.StatusInternalServerError, "An internal error occurred")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Returns ("", false) if RequireSession did not run for this request.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // route is not behind RequireSession
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
