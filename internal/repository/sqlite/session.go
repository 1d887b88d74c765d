package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/repository"
)

var _ repository.SessionRepository = (*SessionDB)(nil)

// SessionDB is the SQLite-backed session store.
// Rows are keyed by the token digest; raw tokens are never stored.
type SessionDB struct {
	conn *sql.DB
}

// Create stores a new session.
func (r *SessionDB) Create(ctx context.Context, session *model.Session) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.TokenHash,
		session.UserID,
		session.CreatedAt.UTC(),
		session.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session: %w", err)
	}
	return nil
}

// FindActive returns the session for tokenHash if it has not expired at now.
// Returns (nil, nil) when there is no such active session.
func (r *SessionDB) FindActive(ctx context.Context, tokenHash string, now time.Time) (*model.Session, error) {
	var s model.Session
	err := r.conn.QueryRowContext(ctx,
		`SELECT token_hash, user_id, created_at, expires_at
		 FROM sessions
		 WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, now.UTC(),
	).Scan(&s.TokenHash, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: finding session: %w", err)
	}
	return &s, nil
}

// Delete removes the session for tokenHash. Deleting an absent session is not
// an error, which makes logout idempotent.
func (r *SessionDB) Delete(ctx context.Context, tokenHash string) error {
	if _, err := r.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = ?`, tokenHash,
	); err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that has expired at now and returns
// how many were removed.
func (r *SessionDB) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}
