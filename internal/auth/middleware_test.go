package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sakif/notes/internal/apperror"
)

type fakeResolver struct {
	sessions map[string]string
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if id, ok := f.sessions[token]; ok {
		return id, nil
	}
	return "", apperror.Unauthenticated("no session")
}

func TestRequireSession(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"good": "user-1"}}

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantUser   string
	}{
		{"no cookie", "", http.StatusUnauthorized, ""},
		{"unknown token", "bad", http.StatusUnauthorized, ""},
		{"valid session", "good", http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				gotUser, _ = UserIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			RequireSession(resolver)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler reached = %v", reached)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user in context = %q, want %q", gotUser, tt.wantUser)
			}

			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]any
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("body is not JSON: %v", err)
				}
				if body["success"] != false {
					t.Errorf("success = %v, want false", body["success"])
				}
				if body["message"] != "Authentication required" {
					t.Errorf("message = %v", body["message"])
				}
			}
		})
	}
}

func TestRequireSession_ResolverFailureIs500(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("database is locked")}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run when the resolver fails")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "any"})
	rec := httptest.NewRecorder()
	RequireSession(resolver)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := rec.Body.String(); got == "" || strings.Contains(got, "locked") {
		t.Errorf("body = %q, internal detail must not leak", got)
	}
}

func TestUserIDFromContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("empty context should not carry a user")
	}
	if _, ok := UserIDFromContext(WithUserID(context.Background(), "")); ok {
		t.Error("empty user id should not count as authenticated")
	}
	id, ok := UserIDFromContext(WithUserID(context.Background(), "u-9"))
	if !ok || id != "u-9" {
		t.Errorf("UserIDFromContext() = %q, %v", id, ok)
	}
}
