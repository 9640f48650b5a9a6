package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"epub-reader-engine/internal/domain"
)

func TestHighlightHandler_CreateListRemove(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rr := doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/highlights",
		`{"cfi_range":"/6/4!/4/2,/1:0,/1:42","text":"a memorable passage","note":"come back to this"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var created domain.Highlight
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected a highlight id")
	}
	if created.Color != domain.HighlightYellow {
		t.Fatalf("expected the default color, got %q", created.Color)
	}
	if created.Note != "come back to this" {
		t.Fatalf("expected the note to be stored, got %q", created.Note)
	}

	rr = doRequest(t, router, http.MethodGet, "/api/v1/sessions/book-1/highlights", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var highlights []*domain.Highlight
	if err := json.Unmarshal(rr.Body.Bytes(), &highlights); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(highlights) != 1 || highlights[0].Text != "a memorable passage" {
		t.Fatalf("unexpected listing: %s", rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodDelete, "/api/v1/sessions/book-1/highlights/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("remove: expected status %d, got %d", http.StatusNoContent, rr.Code)
	}

	// Already removed: the delete stays idempotent for the UI.
	rr = doRequest(t, router, http.MethodDelete, "/api/v1/sessions/book-1/highlights/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("second remove: expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestHighlightHandler_CreateValidation(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rr := doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/highlights", `{"text":"no range"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing range: expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	rr = doRequest(t, router, http.MethodPost, "/api/v1/sessions/book-1/highlights", `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body: expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestHighlightHandler_ListEmpty(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rr := doRequest(t, router, http.MethodGet, "/api/v1/sessions/book-1/highlights", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "[]\n" && rr.Body.String() != "[]" {
		t.Fatalf("expected an empty array, got %q", rr.Body.String())
	}
}
