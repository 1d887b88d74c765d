package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "notes_session"
	// StateCookieName carries the OAuth state nonce between login and callback.
	StateCookieName = "oauth_state"

	sessionTokenBytes = 32
)

// NewSessionToken returns 32 bytes from crypto/rand, hex encoded.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TokenHasher turns raw session tokens into the digests stored at rest.
//
// WHY A KEYED HASH?
// A leaked sessions table must not be replayable. BLAKE2b-256 keyed with
// the server secret means a digest is useless without the secret, and the
// raw token is never written anywhere on the server.
type TokenHasher struct {
	key []byte
}

// NewTokenHasher derives a 32-byte BLAKE2b key from secret.
// blake2b keys are capped at 64 bytes, so the secret is hashed first.
func NewTokenHasher(secret string) (*TokenHasher, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	key := blake2b.Sum256([]byte(secret))
	return &TokenHasher{key: key[:]}, nil
}

// Digest returns the hex digest of token.
func (h *TokenHasher) Digest(token string) string {
	// New256 only fails for keys longer than 64 bytes.
	mac, _ := blake2b.New256(h.key)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// SessionCookie builds the cookie that carries token for ttl.
//
// Cookie properties:
//   - HttpOnly: JavaScript cannot read it
//   - SameSite=Lax: sent on top-level navigations (the OAuth redirect back)
//     but not on cross-site subrequests
//   - No Domain attribute: host-only
//   - Secure: only when the service is reached over https
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns a cookie that deletes name on the client.
func ClearCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// StateCookie carries the state nonce for the duration of the consent screen.
func StateCookie(nonce string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    nonce,
		Path:     "/",
		MaxAge:   int(StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest returns the session token cookie value, or "" if absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
