package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"epub-reader-engine/internal/domain"
)

func TestBookmarkHandler_ToggleConflictRemove(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rr := doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/open", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("open: expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/bookmarks/toggle", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("toggle: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var created struct {
		Bookmark *domain.Bookmark `json:"bookmark"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode toggle response: %v", err)
	}
	if created.Bookmark == nil || created.Bookmark.Cfi.IsZero() {
		t.Fatalf("expected a bookmark with a location, body: %s", rr.Body.String())
	}

	// Same position again: the UI needs the conflict to offer removal.
	rr = doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/bookmarks/toggle", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("second toggle: expected status %d, got %d", http.StatusConflict, rr.Code)
	}

	body := fmt.Sprintf(`{"cfi":%q}`, string(created.Bookmark.Cfi))
	rr = doRequest(t, router, http.MethodDelete, "/api/v1/sessions/book-1/bookmarks", body)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("remove: expected status %d, got %d: %s", http.StatusNoContent, rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodGet, "/api/v1/sessions/book-1/bookmarks", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var bookmarks []*domain.Bookmark
	if err := json.Unmarshal(rr.Body.Bytes(), &bookmarks); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Fatalf("expected no bookmarks after removal, got %d", len(bookmarks))
	}
}

func TestBookmarkHandler_RemoveMissing(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rr := doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/open", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("open: expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = doRequest(t, router, http.MethodDelete, "/api/v1/sessions/book-1/bookmarks", `{"cfi":"epubcfi(/6/2[ch1.xhtml]!/4/1:0)"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}

	rr = doRequest(t, router, http.MethodDelete, "/api/v1/sessions/book-1/bookmarks", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing cfi: expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
