package handler

import (
	"encoding/json"
	"net/http"

	"epub-reader-engine/internal/config"
	"epub-reader-engine/internal/domain"

	"github.com/gorilla/mux"
)

// SessionHandler handles reader-session HTTP requests
type SessionHandler struct {
	container *config.Container
	logger    domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(container *config.Container) *SessionHandler {
	return &SessionHandler{
		container: container,
		logger:    container.Logger,
	}
}

type navigateRequest struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type progressResponse struct {
	Progress *domain.ReadingProgress `json:"progress,omitempty"`
	Page     domain.PageInfo         `json:"page"`
}

type openSessionResponse struct {
	Document domain.Document         `json:"document"`
	Progress *domain.ReadingProgress `json:"progress,omitempty"`
	Page     domain.PageInfo         `json:"page"`
}

// OpenSession opens (or returns) the reader session for a book. Opening runs
// the engine's location-index generation and restores the saved position.
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]
	if bookKey == "" {
		writeError(w, http.StatusBadRequest, "Book key is required")
		return
	}

	session, err := h.container.Sessions.Open(r.Context(), bookKey)
	if err != nil {
		h.logger.Error("Failed to open reader session", err, "book_key", bookKey)
		writeDomainError(w, err)
		return
	}

	progress, page := session.Progress()
	writeJSON(w, http.StatusOK, openSessionResponse{
		Document: session.Document(),
		Progress: progress,
		Page:     page,
	})
}

// CloseSession tears down the session, flushing pending progress writes.
// Closing a book that is not open succeeds silently.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	bookKey := mux.Vars(r)["bookKey"]
	h.container.Sessions.Close(bookKey)
	w.WriteHeader(http.StatusNoContent)
}

// GetProgress returns the current progress snapshot and page info.
func (h *SessionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	session, err := h.container.Sessions.Get(mux.Vars(r)["bookKey"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	progress, page := session.Progress()
	writeJSON(w, http.StatusOK, progressResponse{Progress: progress, Page: page})
}

// Navigate performs a page turn or an exact-location jump. Navigation
// failures are soft: the page simply does not move and the current state is
// returned.
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	session, err := h.container.Sessions.Get(mux.Vars(r)["bookKey"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "next":
		session.NavigateNext(r.Context())
	case "prev":
		session.NavigatePrev(r.Context())
	case "goto":
		if req.Target == "" {
			writeError(w, http.StatusBadRequest, "Target location is required for goto")
			return
		}
		session.GoTo(r.Context(), domain.Location(req.Target))
	default:
		writeError(w, http.StatusBadRequest, "Unknown navigation action")
		return
	}

	progress, page := session.Progress()
	writeJSON(w, http.StatusOK, progressResponse{Progress: progress, Page: page})
}

// Resize reports new view dimensions. The re-layout is debounced; the
// response returns immediately.
func (h *SessionHandler) Resize(w http.ResponseWriter, r *http.Request) {
	session, err := h.container.Sessions.Get(mux.Vars(r)["bookKey"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "Width and height must be positive")
		return
	}

	session.Resize(req.Width, req.Height)
	w.WriteHeader(http.StatusAccepted)
}
