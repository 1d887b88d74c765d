// Package auth holds everything between the browser and a resolved user id:
// the Google provider adapter, the OAuth state signer, session tokens, and
// the middleware that gates protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. GET /auth/google: the server mints a state (signed JWT around a random
//     nonce), drops the nonce into an HttpOnly cookie, and redirects to Google.
//  2. GET /auth/google/callback: the server verifies the returned state
//     against the cookie, exchanges the code for a profile, finds or creates
//     the local user, and issues a session cookie.
//  3. Protected routes: RequireSession reads the session cookie, resolves it
//     against the session store, and puts the user id into the context.
//
// WHY JWT FOR STATE, BUT NOT FOR SESSIONS?
// The state only has to survive one round trip to Google and back, so a
// short-lived signed token is enough. Sessions must be revocable on logout,
// so they live in the database and the cookie carries an opaque token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	stateIssuer = "notes"

	// StateTTL bounds how long a user may sit on the consent screen.
	StateTTL = 10 * time.Minute
)

// StateSigner issues and verifies OAuth state values.
//
// The state sent to Google is HS256(sub=nonce, iss="notes", exp=now+10m).
// The same nonce goes into a cookie on our own origin. On callback both must
// agree: a forged callback from another site carries neither our signature
// nor the victim's cookie.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewStateSigner creates a StateSigner. The secret is shared with the session
// digest key and must be at least 16 characters.
func NewStateSigner(secret string) (*StateSigner, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: state secret must be at least 16 characters")
	}
	return &StateSigner{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a fresh nonce and the signed state that embeds it.
func (s *StateSigner) Issue() (nonce, state string, err error) {
	nonce = xid.New().String()
	now := s.now()

	c := jwt.RegisteredClaims{
		Subject:   nonce,
		Issuer:    stateIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	}

	state, err = jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("auth: signing state: %w", err)
	}
	return nonce, state, nil
}

// Verify checks the state's signature, issuer and expiry, and that it
// carries nonce. Algorithm is pinned to HS256 so a "none" token is rejected.
func (s *StateSigner) Verify(state, nonce string) error {
	if state == "" || nonce == "" {
		return errors.New("auth: missing state")
	}

	token, err := jwt.ParseWithClaims(
		state,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return errors.New("auth: state expired")
		}
		return fmt.Errorf("auth: invalid state: %w", err)
	}

	c, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return errors.New("auth: invalid state claims")
	}
	if c.Subject != nonce {
		return errors.New("auth: state does not match cookie")
	}
	return nil
}
