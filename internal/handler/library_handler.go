package handler

import (
	"encoding/json"
	"net/http"

	"epub-reader-engine/internal/config"
	"epub-reader-engine/internal/domain"
)

// LibraryHandler handles reading-list HTTP requests
type LibraryHandler struct {
	container *config.Container
	logger    domain.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(container *config.Container) *LibraryHandler {
	return &LibraryHandler{
		container: container,
		logger:    container.Logger,
	}
}

type readingListCreateRequest struct {
	Name  string   `json:"name"`
	Books []string `json:"books"`
}

// CreateReadingList creates a named shelf of book keys.
func (h *LibraryHandler) CreateReadingList(w http.ResponseWriter, r *http.Request) {
	var req readingListCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "List name is required")
		return
	}

	list, err := h.container.ReadingLists.Create(req.Name, req.Books)
	if err != nil {
		h.logger.Error("Failed to create reading list", err, "name", req.Name)
		writeError(w, http.StatusInternalServerError, "Failed to save reading list")
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// ListReadingLists returns every reading list on this device.
func (h *LibraryHandler) ListReadingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.container.ReadingLists.List()
	if err != nil {
		h.logger.Error("Failed to list reading lists", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve reading lists")
		return
	}
	if lists == nil {
		lists = []*domain.ReadingList{}
	}

	writeJSON(w, http.StatusOK, lists)
}
