package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/notes/internal/apperror"
	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the SQLite-backed user directory.
type UserDB struct {
	conn *sql.DB
}

// FindOrCreate inserts a user keyed by Google ID, or refreshes the profile of
// the existing row, in a single statement.
//
// WHY ON CONFLICT ... RETURNING AND NOT SELECT-THEN-INSERT?
// Two first logins for the same Google account can race. A SELECT followed by
// an INSERT lets both see "absent" and both insert. The UNIQUE constraint on
// google_id turns the second insert into an update of the first row instead,
// and RETURNING hands back the canonical id either way.
//
// The generated xid is only used when the row is new; on conflict the
// existing id wins. The row is read back afterwards to pick up the stored
// timestamps. An email already owned by a different Google account
// violates users.email UNIQUE and is reported as apperror.ErrConflict.
func (u *UserDB) FindOrCreate(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	err := u.conn.QueryRowContext(ctx,
		`INSERT INTO users (id, google_id, email, name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(google_id) DO UPDATE SET
		     email      = excluded.email,
		     name       = excluded.name,
		     avatar_url = excluded.avatar_url,
		     updated_at = excluded.updated_at
		 RETURNING id`,
		xid.New().String(),
		user.GoogleID,
		user.Email,
		user.Name,
		user.PictureURL,
		now,
		now,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email")
		}
		return fmt.Errorf("sqlite: upserting user (googleID=%s): %w", user.GoogleID, err)
	}

	stored, err := u.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.ID, err)
	}
	*user = *stored

	return nil
}

// FindByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) FindByID(ctx context.Context, id string) (*model.User, error) {
	var usr model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, google_id, email, name, avatar_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&usr.ID,
		&usr.GoogleID,
		&usr.Email,
		&usr.Name,
		&usr.PictureURL,
		&usr.CreatedAt,
		&usr.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &usr, nil
}
