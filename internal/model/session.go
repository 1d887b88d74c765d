package model

import "time"

// Session is server-held authentication state for one login.
//
// TokenHash is the keyed digest of the cookie token; the raw token is only
// ever held by the browser. ExpiresAt is fixed at creation and never slides.
type Session struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
