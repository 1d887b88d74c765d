// Package repository declares the persistence contracts used by the service
// layer. Implementations live in subpackages (see repository/sqlite).
package repository

import (
	"context"
	"time"

	"github.com/sakif/notes/internal/model"
)

// UserRepository is the user directory: a persistent mapping from the
// external Google identity to a local user record.
type UserRepository interface {
	// FindOrCreate inserts the user keyed by GoogleID, or refreshes the
	// profile of the existing row. It fills in ID and timestamps in place.
	// Must be atomic under concurrent calls for the same GoogleID.
	FindOrCreate(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository stores server-side sessions keyed by token digest.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// FindActive returns the session only if it has not expired at now.
	FindActive(ctx context.Context, tokenHash string, now time.Time) (*model.Session, error)
	// Delete is idempotent: deleting an absent session is not an error.
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NoteRepository stores notes. Every method is scoped by ownerID; a note
// owned by someone else is reported exactly like a missing one.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	Update(ctx context.Context, ownerID, id string, patch model.NotePatch, now time.Time) (*model.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}
