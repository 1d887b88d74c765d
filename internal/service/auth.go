// Package service: authentication business logic.
//
// AuthService sits between the HTTP handlers and the stores:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                                                  ↘ SessionRepository (DB)
//
// KEY RESPONSIBILITIES:
//   - Turn a verified Google profile into a local user and a fresh session
//   - Resolve session tokens for the authorization gate
//   - Destroy sessions on logout, idempotently
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/notes/internal/apperror"
	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/repository"
)

// DefaultSessionTTL is the fixed lifetime of a session from issuance.
// Sessions are never extended by activity.
const DefaultSessionTTL = 24 * time.Hour

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository    → user directory
//   - sessions  repository.SessionRepository → server-side sessions
//   - hasher    *auth.TokenHasher            → token → digest at rest
//   - ttl       time.Duration                → session lifetime
//   - logger    *slog.Logger                 → structured logging
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   *auth.TokenHasher
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher *auth.TokenHasher,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL reports the session lifetime, used by the handler for cookie Max-Age.
func (s *AuthService) TTL() time.Duration { return s.ttl }

// LoginResult bundles the user record and the raw session token so the
// caller (the HTTP handler) can set the cookie and redirect in one step.
// Token is the only copy of the raw value; the store keeps its digest.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login handles a successful provider callback.
//
//  1. Find or create the user keyed by the provider's subject. Repeat logins
//     refresh email, name and picture.
//  2. Issue a new session token and store its digest with a fixed expiry.
//  3. Opportunistically purge expired sessions.
//
// WHAT THIS METHOD DOES NOT DO:
//   - It does NOT set cookies (HTTP concern, handler's job)
//   - It does NOT verify OAuth state (done before the exchange)
func (s *AuthService) Login(ctx context.Context, profile *auth.Profile) (*LoginResult, error) {
	if profile == nil {
		return nil, errors.New("service/auth: profile must not be nil")
	}
	if profile.ExternalID == "" {
		return nil, apperror.ValidationFailed("sub", "provider profile has no subject")
	}

	user := &model.User{
		GoogleID:   profile.ExternalID,
		Email:      profile.Email,
		Name:       profile.Name,
		PictureURL: profile.PictureURL,
	}
	if err := s.users.FindOrCreate(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: finding or creating user: %w", err)
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	now := s.now().UTC()
	session := &model.Session{
		TokenHash: s.hasher.Digest(token),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	if _, err := s.PurgeExpired(ctx); err != nil {
		s.logger.Warn("purging expired sessions", slog.String("error", err.Error()))
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve returns the user id bound to token.
// Missing, unknown and expired tokens are all apperror.ErrUnauthenticated.
// Any other error means the store itself failed.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperror.Unauthenticated("no session")
	}

	session, err := s.sessions.FindActive(ctx, s.hasher.Digest(token), s.now())
	if err != nil {
		return "", fmt.Errorf("service/auth: resolving session: %w", err)
	}
	if session == nil {
		return "", apperror.Unauthenticated("session unknown or expired")
	}
	return session.UserID, nil
}

// CurrentUser resolves token and loads the user it belongs to.
// A session whose user no longer exists counts as unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("session user no longer exists")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

// Logout destroys the session for token. An empty or unknown token is a
// no-op, so logging out twice succeeds both times.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, s.hasher.Digest(token)); err != nil {
		return fmt.Errorf("service/auth: deleting session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions that have passed their expiry.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service/auth: purging sessions: %w", err)
	}
	if n > 0 {
		s.logger.Debug("purged expired sessions", slog.Int64("count", n))
	}
	return n, nil
}
