package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/notes/internal/apperror"
	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/handler"
	"github.com/sakif/notes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNoteStore keeps notes in memory, scoped by owner.
type fakeNoteStore struct {
	mu     sync.Mutex
	notes  map[string]model.Note
	nextID int
	err    error
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]model.Note)}
}

func (s *fakeNoteStore) Create(_ context.Context, ownerID, title, content string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	s.nextID++
	now := time.Now().UTC()
	n := model.Note{
		ID:        "note-" + string(rune('a'+s.nextID)),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes[n.ID] = n
	return &n, nil
}

func (s *fakeNoteStore) Get(_ context.Context, ownerID, id string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, apperror.NotFound("note", id)
	}
	return &n, nil
}

func (s *fakeNoteStore) List(_ context.Context, ownerID string) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []model.Note{}
	for _, n := range s.notes {
		if n.UserID == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) Update(_ context.Context, ownerID, id string, patch model.NotePatch) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, apperror.NotFound("note", id)
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	n.UpdatedAt = n.UpdatedAt.Add(time.Second)
	s.notes[id] = n
	return &n, nil
}

func (s *fakeNoteStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != ownerID {
		return apperror.NotFound("note", id)
	}
	delete(s.notes, id)
	return nil
}

// newNoteRouter mounts the note handlers the way the server does, but with
// the user id injected directly instead of a session lookup.
func newNoteRouter(store *fakeNoteStore) http.Handler {
	h := handler.NewNoteHandler(store, testLogger())
	r := chi.NewRouter()
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if uid := r.Header.Get("X-Test-User"); uid != "" {
					r = r.WithContext(auth.WithUserID(r.Context(), uid))
				}
				next.ServeHTTP(w, r)
			})
		})
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	return r
}

func do(t *testing.T, router http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeNote(t *testing.T, rr *httptest.ResponseRecorder) handler.NoteResponse {
	t.Helper()
	var resp handler.NoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// =========================================================================
// CREATE
// =========================================================================

func TestHandleCreate(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())

	t.Run("valid note", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"A"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeNote(t, rr)
		assert.True(t, resp.Success)
		assert.Equal(t, "Note created successfully", resp.Message)
		require.NotNil(t, resp.Note)
		assert.Equal(t, "A", resp.Note.Title)
		assert.Equal(t, "", resp.Note.Content)
	})

	t.Run("whitespace title", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"  "}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"success":false,"message":"Title is required"}`, rr.Body.String())
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid JSON body"}`, rr.Body.String())
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"title":"x","content":"` + strings.Repeat("a", 2<<20) + `"}`
		rr := do(t, router, http.MethodPost, "/api/notes", "alice", big)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/notes", "", `{"title":"A"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHandleCreate_InternalErrorIsGeneric(t *testing.T) {
	store := newFakeNoteStore()
	store.err = errors.New("sqlite: disk I/O error at /var/lib/notes.db")
	router := newNoteRouter(store)

	rr := do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"A"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"An internal error occurred"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "sqlite")
}

// =========================================================================
// LIST / GET / UPDATE / DELETE
// =========================================================================

func TestHandleList_OnlyOwnNotes(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())
	do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"mine"}`)
	do(t, router, http.MethodPost, "/api/notes", "bob", `{"title":"bob's"}`)

	rr := do(t, router, http.MethodGet, "/api/notes", "alice", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handler.NotesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "mine", resp.Notes[0].Title)
}

func TestHandleList_EmptyIsArray(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())

	rr := do(t, router, http.MethodGet, "/api/notes", "alice", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"notes":[]}`, rr.Body.String())
}

func TestHandleNote_OtherOwnerIsNotFound(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())
	created := decodeNote(t, do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"secret"}`))
	path := "/api/notes/" + created.Note.ID

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"title":"mine now"}`},
		{http.MethodDelete, ""},
	} {
		rr := do(t, router, tc.method, path, "bob", tc.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, tc.method)
		assert.JSONEq(t, `{"success":false,"message":"Note not found"}`, rr.Body.String(), tc.method)
	}

	rr := do(t, router, http.MethodGet, path, "alice", "")
	assert.Equal(t, "secret", decodeNote(t, rr).Note.Title)
}

func TestHandleUpdate_ContentOnly(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())
	created := decodeNote(t, do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"T","content":"old"}`))

	rr := do(t, router, http.MethodPut, "/api/notes/"+created.Note.ID, "alice", `{"content":"new"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeNote(t, rr)
	assert.Equal(t, "Note updated successfully", resp.Message)
	assert.Equal(t, "T", resp.Note.Title)
	assert.Equal(t, "new", resp.Note.Content)
	assert.True(t, resp.Note.UpdatedAt.After(created.Note.UpdatedAt))
}

func TestHandleNote_RoundTrip(t *testing.T) {
	router := newNoteRouter(newFakeNoteStore())
	created := decodeNote(t, do(t, router, http.MethodPost, "/api/notes", "alice", `{"title":"  Trip ","content":"socks"}`))
	path := "/api/notes/" + created.Note.ID

	got := decodeNote(t, do(t, router, http.MethodGet, path, "alice", ""))
	assert.Equal(t, "Trip", got.Note.Title)
	assert.Equal(t, "socks", got.Note.Content)

	rr := do(t, router, http.MethodDelete, path, "alice", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Note deleted successfully"}`, rr.Body.String())

	rr = do(t, router, http.MethodGet, path, "alice", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
