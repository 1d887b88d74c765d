package client

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sakif/notes/internal/model"
)

// SortKey orders the visible list.
type SortKey string

const (
	SortUpdated SortKey = "updatedAt" // newest edit first
	SortCreated SortKey = "createdAt" // oldest first
	SortTitle   SortKey = "title"     // A to Z, case-insensitive
)

// ViewMode is how the list is laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseSortKey validates a sort key name. Unknown names fall back to
// SortUpdated with ok false.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortUpdated, SortCreated, SortTitle:
		return SortKey(s), true
	}
	return SortUpdated, false
}

// ParseViewMode validates a view mode name. Unknown names fall back to
// ViewGrid with ok false.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewGrid, ViewList:
		return ViewMode(s), true
	}
	return ViewGrid, false
}

// NoteAPI is the subset of Client that Board needs.
type NoteAPI interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, title, content string) (*model.Note, error)
	UpdateNote(ctx context.Context, id string, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Stats summarizes the last-fetched list.
type Stats struct {
	Total   int // notes fetched
	Visible int // notes matching the search
}

// Board holds the last-fetched notes and the local view state.
//
// MUTATIONS ALWAYS RE-FETCH:
// Create, Update and Delete never patch the cached list. After a successful
// call the whole list is fetched again, so what is visible is always what
// the server returned last. A failed call or a failed re-fetch leaves the
// previous list in place.
type Board struct {
	api NoteAPI

	mu     sync.RWMutex
	notes  []model.Note
	search string
	sortBy SortKey
	view   ViewMode
}

// NewBoard creates an empty Board sorted by last update, in grid view.
func NewBoard(api NoteAPI) *Board {
	return &Board{
		api:    api,
		notes:  []model.Note{},
		sortBy: SortUpdated,
		view:   ViewGrid,
	}
}

// Refresh replaces the cached list with a fresh fetch.
func (b *Board) Refresh(ctx context.Context) error {
	notes, err := b.api.ListNotes(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.notes = notes
	b.mu.Unlock()
	return nil
}

// Create creates a note, then re-fetches.
func (b *Board) Create(ctx context.Context, title, content string) (*model.Note, error) {
	n, err := b.api.CreateNote(ctx, title, content)
	if err != nil {
		return nil, err
	}
	return n, b.Refresh(ctx)
}

// Update updates a note, then re-fetches.
func (b *Board) Update(ctx context.Context, id string, patch model.NotePatch) (*model.Note, error) {
	n, err := b.api.UpdateNote(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return n, b.Refresh(ctx)
}

// Delete deletes a note, then re-fetches.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteNote(ctx, id); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

// SetSearch sets the search term. Matching is a case-insensitive substring
// test against title and content.
func (b *Board) SetSearch(term string) {
	b.mu.Lock()
	b.search = strings.TrimSpace(term)
	b.mu.Unlock()
}

// SetSort sets the sort key.
func (b *Board) SetSort(key SortKey) {
	b.mu.Lock()
	b.sortBy = key
	b.mu.Unlock()
}

// SetView sets the view mode.
func (b *Board) SetView(mode ViewMode) {
	b.mu.Lock()
	b.view = mode
	b.mu.Unlock()
}

// View returns the current view mode.
func (b *Board) View() ViewMode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Visible returns the filtered and sorted notes. The result is a copy.
func (b *Board) Visible() []model.Note {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := strings.ToLower(b.search)
	out := make([]model.Note, 0, len(b.notes))
	for _, n := range b.notes {
		if needle == "" ||
			strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			out = append(out, n)
		}
	}

	switch b.sortBy {
	case SortCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	}
	return out
}

// Stats reports totals for the fetched and visible lists.
func (b *Board) Stats() Stats {
	visible := len(b.Visible())
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{Total: len(b.notes), Visible: visible}
}
