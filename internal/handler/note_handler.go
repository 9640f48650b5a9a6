package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"epub-reader-engine/internal/config"
	"epub-reader-engine/internal/domain"

	"github.com/gorilla/mux"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	container *config.Container
	logger    domain.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(container *config.Container) *NoteHandler {
	return &NoteHandler{
		container: container,
		logger:    container.Logger,
	}
}

type noteCreateRequest struct {
	CfiRange string `json:"cfi_range"`
	Text     string `json:"text"`
	NoteText string `json:"note_text"`
}

type noteUpdateRequest struct {
	NoteText string `json:"note_text"`
}

// CreateNote attaches a note to a text range.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]

	var req noteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CfiRange == "" {
		writeError(w, http.StatusBadRequest, "cfi_range is required")
		return
	}

	note, err := h.container.Notes.Add(bookKey, domain.Location(req.CfiRange), req.Text, req.NoteText)
	if err != nil {
		h.logger.Error("Failed to create note", err, "book_key", bookKey)
		writeError(w, http.StatusInternalServerError, "Failed to save note")
		return
	}
	if note == nil {
		writeError(w, http.StatusBadRequest, "Book key is required")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote replaces the user-authored text of a note.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookKey := vars["bookKey"]

	var req noteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.container.Notes.Update(bookKey, vars["id"], req.NoteText)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			writeDomainError(w, err)
			return
		}
		h.logger.Error("Failed to update note", err, "book_key", bookKey, "note_id", vars["id"])
		writeError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// RemoveNote deletes a note by id.
func (h *NoteHandler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookKey := vars["bookKey"]

	if err := h.container.Notes.Remove(bookKey, vars["id"]); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			writeDomainError(w, err)
			return
		}
		h.logger.Error("Failed to remove note", err, "book_key", bookKey, "note_id", vars["id"])
		writeError(w, http.StatusInternalServerError, "Failed to remove note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNotes returns the persisted note collection for the book.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]

	notes, err := h.container.Notes.List(bookKey)
	if err != nil {
		h.logger.Error("Failed to list notes", err, "book_key", bookKey)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve notes")
		return
	}
	if notes == nil {
		notes = []*domain.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}
