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

// COMPILE-TIME INTERFACE CHECK:
// If *NoteDB stops satisfying repository.NoteRepository the build fails here,
// not at the place in server.go where the two meet.
var _ repository.NoteRepository = (*NoteDB)(nil)

// NoteDB is the SQLite-backed notes repository.
//
// OWNER SCOPING:
// Every statement carries "user_id = ?" next to "id = ?". A note that exists
// but belongs to another user therefore matches zero rows, and the caller
// gets the same apperror.ErrNotFound as for a note that never existed.
type NoteDB struct {
	conn *sql.DB
}

const noteCols = `id, user_id, title, content, created_at, updated_at`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	if err := scanner.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new note. ID is generated here; the caller sets UserID,
// Title, Content and both timestamps.
//
// xid ids are 20 chars, URL-safe and unique across concurrent inserts, so
// two identical requests always produce two distinct notes.
func (r *NoteDB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO notes (`+noteCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// GetByID retrieves a single note owned by ownerID.
func (r *NoteDB) GetByID(ctx context.Context, ownerID, id string) (*model.Note, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+noteCols+` FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	n, err := scanNote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}
	return n, nil
}

// ListByOwner returns every note owned by ownerID, most recently updated
// first. There is no pagination; the full owned set is returned.
func (r *NoteDB) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+noteCols+`
		 FROM notes
		 WHERE user_id = ?
		 ORDER BY updated_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// Update applies a partial update to a note owned by ownerID and returns the
// stored result.
//
// STRATEGY: read, patch, write, inside one transaction.
// Only fields present in the patch change. updated_at always moves, and it
// moves strictly forward: if now is not after the stored value (two updates
// inside the clock's resolution), the stored value plus one microsecond is
// used instead.
func (r *NoteDB) Update(ctx context.Context, ownerID, id string, patch model.NotePatch, now time.Time) (*model.Note, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning note update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+noteCols+` FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	n, err := scanNote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: loading note %s for update: %w", id, err)
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	n.UpdatedAt = laterStamp(n.UpdatedAt, now)

	_, err = tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		n.Title,
		n.Content,
		n.UpdatedAt,
		n.ID,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating note %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing note update %s: %w", id, err)
	}

	return n, nil
}

// Delete removes a note owned by ownerID.
// RowsAffected of zero means absent or not owned, both reported as NotFound.
func (r *NoteDB) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", id)
	}

	return nil
}

func laterStamp(prev, now time.Time) time.Time {
	now = now.UTC()
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
