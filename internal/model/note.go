package model

import "time"

// Note is a short text note owned by exactly one user.
//
// UserID is set once at creation and never changes. UpdatedAt is refreshed
// on every mutation; CreatedAt never moves.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePatch carries a partial update. A nil field means "leave unchanged".
type NotePatch struct {
	Title   *string
	Content *string
}

// Empty reports whether the patch changes no fields.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
