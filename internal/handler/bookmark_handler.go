package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"epub-reader-engine/internal/config"
	"epub-reader-engine/internal/domain"

	"github.com/gorilla/mux"
)

// BookmarkHandler handles bookmark-related HTTP requests
type BookmarkHandler struct {
	container *config.Container
	logger    domain.Logger
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(container *config.Container) *BookmarkHandler {
	return &BookmarkHandler{
		container: container,
		logger:    container.Logger,
	}
}

type bookmarkToggleResponse struct {
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`
	Exists   bool             `json:"exists"`
}

type bookmarkRemoveRequest struct {
	Cfi string `json:"cfi"`
}

// ToggleBookmark bookmarks the session's current location. When the exact
// location is already bookmarked it responds 409 with exists=true, which the
// UI surfaces as a confirm-removal prompt.
func (h *BookmarkHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	session, err := h.container.Sessions.Get(mux.Vars(r)["bookKey"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	bookmark, err := session.ToggleBookmark()
	if errors.Is(err, domain.ErrBookmarkExists) {
		writeJSON(w, http.StatusConflict, bookmarkToggleResponse{Exists: true})
		return
	}
	if err != nil {
		h.logger.Error("Failed to save bookmark", err, "book_key", session.BookKey())
		writeError(w, http.StatusInternalServerError, "Failed to save bookmark")
		return
	}
	if bookmark == nil {
		// No current location yet; nothing to bookmark.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, bookmarkToggleResponse{Bookmark: bookmark})
}

// RemoveBookmark deletes a bookmark by its exact location string.
func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cfi == "" {
		writeError(w, http.StatusBadRequest, "Bookmark location is required")
		return
	}

	if err := h.container.Bookmarks.Remove(domain.Location(req.Cfi)); err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			writeDomainError(w, err)
			return
		}
		h.logger.Error("Failed to remove bookmark", err, "cfi", req.Cfi)
		writeError(w, http.StatusInternalServerError, "Failed to remove bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBookmarks returns every bookmark for the book.
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]

	bookmarks, err := h.container.Bookmarks.List(bookKey)
	if err != nil {
		h.logger.Error("Failed to list bookmarks", err, "book_key", bookKey)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve bookmarks")
		return
	}

	writeJSON(w, http.StatusOK, bookmarks)
}
