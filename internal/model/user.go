// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// Google is the only identity provider, so the external identifier is the
// OpenID Connect "sub" claim (a string, stable per Google account). We still
// generate our own internal string ID (xid) so primary keys are not tied to a
// third-party's numbering scheme.
//
// The UNIQUE constraints on google_id and email in the DB ensure one Google
// account maps to exactly one user, and no two users share an email.
type User struct {
	ID         string    `json:"id"             db:"id"`
	GoogleID   string    `json:"-"              db:"google_id"` // OIDC subject, never sent to clients
	Email      string    `json:"email"          db:"email"`
	Name       string    `json:"name"           db:"name"`
	PictureURL string    `json:"profilePicture" db:"avatar_url"` // may be empty
	CreatedAt  time.Time `json:"createdAt"      db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"      db:"updated_at"`
}
