// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and domain types, never *http.Request, so the
// same rules apply whether the caller is an HTTP handler or a test.
//
// DEPENDENCY INJECTION:
// NoteService takes a repository.NoteRepository (interface), not a
// *sqlite.NoteDB. Tests pass an in-memory fake instead.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/notes/internal/apperror"
	"github.com/sakif/notes/internal/model"
	"github.com/sakif/notes/internal/repository"
)

// MaxTitleLength is counted in characters, not bytes.
const MaxTitleLength = 255

// MutationObserver is told about every successful note mutation.
// The metrics collector implements it.
type MutationObserver interface {
	NoteMutated(op string)
}

type nopObserver struct{}

func (nopObserver) NoteMutated(string) {}

// NoteService handles business logic for notes.
// Every method takes the owner's id; the repository scopes by it.
type NoteService struct {
	repo     repository.NoteRepository
	logger   *slog.Logger
	observer MutationObserver
	now      func() time.Time
}

// NewNoteService creates a NoteService. observer may be nil.
func NewNoteService(repo repository.NoteRepository, logger *slog.Logger, observer MutationObserver) *NoteService {
	if observer == nil {
		observer = nopObserver{}
	}
	return &NoteService{
		repo:     repo,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// Create validates and saves a new note.
//
// The title is trimmed and must be non-empty. Content is kept as sent and
// defaults to "". Two identical calls produce two distinct notes.
func (s *NoteService) Create(ctx context.Context, ownerID, title, content string) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperror.Unauthenticated("owner is required")
	}

	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	note := &model.Note{
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.observer.NoteMutated("create")
	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("userID", ownerID),
	)
	return note, nil
}

// Get returns one note owned by ownerID.
// A note owned by someone else is apperror.ErrNotFound, like a missing one.
func (s *NoteService) Get(ctx context.Context, ownerID, id string) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperror.Unauthenticated("owner is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("note", id)
	}
	return s.repo.GetByID(ctx, ownerID, id)
}

// List returns every note owned by ownerID, most recently updated first.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	if ownerID == "" {
		return nil, apperror.Unauthenticated("owner is required")
	}

	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list notes",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Update applies a partial update. Only fields present in patch change; a
// supplied title is trimmed and validated like on create, after the note is
// known to exist and be owned by ownerID. The update
// timestamp always advances, even for an empty patch.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, patch model.NotePatch) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperror.Unauthenticated("owner is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("note", id)
	}

	if patch.Title != nil {
		// Ownership first: another user's note is 404 even with a bad title.
		if _, err := s.repo.GetByID(ctx, ownerID, id); err != nil {
			return nil, err
		}
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	note, err := s.repo.Update(ctx, ownerID, id, patch, s.now())
	if err != nil {
		return nil, err
	}

	s.observer.NoteMutated("update")
	s.logger.Info("note updated",
		slog.String("id", note.ID),
		slog.String("userID", ownerID),
	)
	return note, nil
}

// Delete removes a note owned by ownerID.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return apperror.Unauthenticated("owner is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.NotFound("note", id)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.observer.NoteMutated("delete")
	s.logger.Info("note deleted", slog.String("id", id), slog.String("userID", ownerID))
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.ValidationFailed("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
	}
	return title, nil
}
