package handler

import (
	"encoding/json"
	"net/http"

	"epub-reader-engine/internal/config"
	"epub-reader-engine/internal/domain"

	"github.com/gorilla/mux"
)

// HighlightHandler handles highlight-related HTTP requests
type HighlightHandler struct {
	container *config.Container
	logger    domain.Logger
}

// NewHighlightHandler creates a new highlight handler
func NewHighlightHandler(container *config.Container) *HighlightHandler {
	return &HighlightHandler{
		container: container,
		logger:    container.Logger,
	}
}

type highlightCreateRequest struct {
	CfiRange string `json:"cfi_range"`
	Text     string `json:"text"`
	Note     string `json:"note,omitempty"`
	Color    string `json:"color,omitempty"`
}

// CreateHighlight persists a new highlight on a text range. The live view, if
// open, anchors it immediately.
func (h *HighlightHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]

	var req highlightCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CfiRange == "" {
		writeError(w, http.StatusBadRequest, "cfi_range is required")
		return
	}

	highlight, err := h.container.Highlights.Add(
		bookKey,
		domain.Location(req.CfiRange),
		req.Text,
		req.Note,
		domain.HighlightColor(req.Color),
	)
	if err != nil {
		h.logger.Error("Failed to create highlight", err, "book_key", bookKey)
		writeError(w, http.StatusInternalServerError, "Failed to save highlight")
		return
	}
	if highlight == nil {
		writeError(w, http.StatusBadRequest, "Book key is required")
		return
	}

	writeJSON(w, http.StatusCreated, highlight)
}

// RemoveHighlight deletes a highlight by id. Removing an id that is already
// gone succeeds: already-removed is not a failure.
func (h *HighlightHandler) RemoveHighlight(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookKey := vars["bookKey"]

	if err := h.container.Highlights.Remove(bookKey, vars["id"]); err != nil {
		h.logger.Error("Failed to remove highlight", err, "book_key", bookKey, "highlight_id", vars["id"])
		writeError(w, http.StatusInternalServerError, "Failed to remove highlight")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListHighlights returns the persisted highlight collection for the book.
func (h *HighlightHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]

	highlights, err := h.container.Highlights.List(bookKey)
	if err != nil {
		h.logger.Error("Failed to list highlights", err, "book_key", bookKey)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve highlights")
		return
	}
	if highlights == nil {
		highlights = []*domain.Highlight{}
	}

	writeJSON(w, http.StatusOK, highlights)
}
