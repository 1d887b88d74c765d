package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/model"
)

// NoteStore is the part of service.NoteService the notes routes need.
type NoteStore interface {
	Create(ctx context.Context, ownerID, title, content string) (*model.Note, error)
	Get(ctx context.Context, ownerID, id string) (*model.Note, error)
	List(ctx context.Context, ownerID string) ([]model.Note, error)
	Update(ctx context.Context, ownerID, id string, patch model.NotePatch) (*model.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

const noteNotFound = "Note not found"

// NoteHandler serves /api/notes. Every route sits behind
// auth.RequireSession, so the owner id always comes from the context and
// never from the request.
type NoteHandler struct {
	notes  NoteStore
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes NoteStore, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// NoteResponse wraps a single note.
type NoteResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Note    *model.Note `json:"note"`
}

// NotesResponse wraps the owner's full list.
type NotesResponse struct {
	Success bool         `json:"success"`
	Notes   []model.Note `json:"notes"`
}

// createNoteRequest is the body of POST /api/notes.
type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updateNoteRequest is the body of PUT /api/notes/{id}. Pointers tell
// "absent" apart from "set to empty".
type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// HandleList returns every note the caller owns.
//
// HTTP: GET /api/notes
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, NotesResponse{Success: true, Notes: notes})
}

// HandleGet returns one note.
//
// HTTP: GET /api/notes/{id}
func (h *NoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	note, err := h.notes.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Success: true, Note: note})
}

// HandleCreate saves a new note.
//
// HTTP: POST /api/notes
// REQUEST BODY: {"title": "Groceries", "content": "milk"}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}

	note, err := h.notes.Create(r.Context(), ownerID, req.Title, req.Content)
	if err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{
		Success: true,
		Message: "Note created successfully",
		Note:    note,
	})
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /api/notes/{id}
// REQUEST BODY: {"title"?: "...", "content"?: "..."}
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}

	note, err := h.notes.Update(r.Context(), ownerID, chi.URLParam(r, "id"), model.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{
		Success: true,
		Message: "Note updated successfully",
		Note:    note,
	})
}

// HandleDelete removes a note.
//
// HTTP: DELETE /api/notes/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, noteNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted successfully")
}

// owner reads the user id RequireSession put into the context. It only
// fails if a route was mounted without the gate.
func (h *NoteHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return ownerID, true
}
