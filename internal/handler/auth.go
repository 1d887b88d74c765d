package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sakif/notes/internal/apperror"
	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/service"
)

// Authenticator is the part of service.AuthService the auth routes need.
type Authenticator interface {
	Login(ctx context.Context, profile *auth.Profile) (*service.LoginResult, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string) error
}

// LoginObserver is told how each callback ended ("success" or a failure
// reason). The metrics collector implements it.
type LoginObserver interface {
	LoginAttempted(result string)
}

// Callback failure reasons, sent as ?error=<reason> to the failure page.
const (
	reasonProviderDenied = "provider_denied"
	reasonInvalidState   = "invalid_state"
	reasonMissingCode    = "missing_code"
	reasonExchangeFailed = "exchange_failed"
	reasonLoginFailed    = "login_failed"
)

// AuthConfig holds the redirect targets and cookie settings.
type AuthConfig struct {
	SuccessURL   string        // frontend dashboard
	FailureURL   string        // frontend login page
	CookieSecure bool          // true when served over https
	SessionTTL   time.Duration // cookie Max-Age
}

// AuthHandler manages the Google login flow and session routes.
//
// HANDLER RESPONSIBILITIES:
//   - HandleGoogleLogin    → redirect the browser to Google's consent screen
//   - HandleGoogleCallback → verify state, exchange code, issue session cookie
//   - HandleUser           → return the logged-in user's profile
//   - HandleLogout         → destroy the session and clear the cookie
type AuthHandler struct {
	provider auth.Provider
	state    *auth.StateSigner
	service  Authenticator
	observer LoginObserver
	config   AuthConfig
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. observer may be nil.
func NewAuthHandler(
	provider auth.Provider,
	state *auth.StateSigner,
	svc Authenticator,
	observer LoginObserver,
	config AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		state:    state,
		service:  svc,
		observer: observer,
		config:   config,
		logger:   logger,
	}
}

// userView is the public shape of a user. Timestamps and the Google subject
// stay server-side.
type userView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

// UserResponse is the body of GET /auth/user.
type UserResponse struct {
	Success bool     `json:"success"`
	User    userView `json:"user"`
}

// HandleGoogleLogin redirects the user to Google.
//
// HTTP: GET /auth/google
//
// CSRF PROTECTION VIA STATE:
// The state sent to Google is a signed, expiring token around a random
// nonce; the same nonce goes into a short-lived HttpOnly cookie. The
// callback only proceeds when both agree.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	nonce, state, err := h.state.Issue()
	if err != nil {
		h.logger.Error("auth login: issuing state", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	http.SetCookie(w, auth.StateCookie(nonce, h.config.CookieSecure))
	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusFound)
}

// HandleGoogleCallback completes the login flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Bail out if Google reported an error (user denied consent)
//  2. Verify the state against the cookie (single use, cleared either way)
//  3. Exchange the code for a profile
//  4. Find or create the user and open a session
//  5. Set the session cookie and redirect to the dashboard
//
// Every failure redirects to the failure page; none render an error body.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	http.SetCookie(w, auth.ClearCookie(auth.StateCookieName, h.config.CookieSecure))

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Info("auth callback: provider returned error", slog.String("error", errParam))
		h.fail(w, r, reasonProviderDenied)
		return
	}

	nonce := ""
	if c, err := r.Cookie(auth.StateCookieName); err == nil {
		nonce = c.Value
	}
	if err := h.state.Verify(q.Get("state"), nonce); err != nil {
		h.logger.Warn("auth callback: state rejected", slog.String("error", err.Error()))
		h.fail(w, r, reasonInvalidState)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.fail(w, r, reasonMissingCode)
		return
	}

	profile, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		h.fail(w, r, reasonExchangeFailed)
		return
	}

	result, err := h.service.Login(r.Context(), profile)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("googleID", profile.ExternalID),
			slog.String("error", err.Error()),
		)
		h.fail(w, r, reasonLoginFailed)
		return
	}

	http.SetCookie(w, auth.SessionCookie(result.Token, h.config.SessionTTL, h.config.CookieSecure))
	h.observe("success")
	http.Redirect(w, r, h.config.SuccessURL, http.StatusFound)
}

// HandleUser returns the currently authenticated user's profile.
//
// HTTP: GET /auth/user
func (h *AuthHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthenticated) {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeError(w, r, err, "Not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		Success: true,
		User: userView{
			ID:             user.ID,
			Name:           user.Name,
			Email:          user.Email,
			ProfilePicture: user.PictureURL,
		},
	})
}

// HandleLogout destroys the session, if any, and clears the cookie.
//
// HTTP: POST /auth/logout
//
// Logout without a session is still a success, so calling it twice is
// harmless. Only a store failure returns 500, and then the cookie is kept so
// the user can try again.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "Error logging out")
		return
	}

	http.SetCookie(w, auth.ClearCookie(auth.SessionCookieName, h.config.CookieSecure))
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// fail redirects to the failure page with the reason attached.
func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, reason string) {
	h.observe(reason)

	target := h.config.FailureURL
	if u, err := url.Parse(target); err == nil {
		q := u.Query()
		q.Set("error", reason)
		u.RawQuery = q.Encode()
		target = u.String()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandler) observe(result string) {
	if h.observer != nil {
		h.observer.LoginAttempted(result)
	}
}
