package service

import (
	"errors"
	"testing"

	"epub-reader-engine/internal/domain"
)

func TestNoteService_AddAndList(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, NewBus(), &mockLogger{})

	note, err := svc.Add("book-1", "/6/4!/1:0,/1:20", "quoted text", "my thoughts")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if note == nil || note.ID == "" {
		t.Fatalf("expected a note with a fresh id")
	}
	if note.CreatedAt.IsZero() || !note.UpdatedAt.Equal(note.CreatedAt) {
		t.Fatalf("expected created and updated timestamps to match at creation")
	}

	notes, err := svc.List("book-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(notes) != 1 || notes[0].NoteText != "my thoughts" {
		t.Fatalf("unexpected persisted notes: %+v", notes)
	}
}

func TestNoteService_AddWithoutBookKey(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, NewBus(), &mockLogger{})

	note, err := svc.Add("", "/6/4!/1:0", "text", "note")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note without a book key")
	}
	if store.writeCount() != 0 {
		t.Fatalf("expected no storage write, got %d", store.writeCount())
	}
}

func TestNoteService_UpdateBumpsTimestamp(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, NewBus(), &mockLogger{})

	note, err := svc.Add("book-1", "/6/4!/1:0", "text", "first draft")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	updated, err := svc.Update("book-1", note.ID, "second draft")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.NoteText != "second draft" {
		t.Fatalf("expected updated text, got %q", updated.NoteText)
	}
	if updated.UpdatedAt.Before(note.CreatedAt) {
		t.Fatalf("expected UpdatedAt at or after creation")
	}

	notes, _ := svc.List("book-1")
	if len(notes) != 1 || notes[0].NoteText != "second draft" {
		t.Fatalf("update did not persist: %+v", notes)
	}
}

func TestNoteService_UpdateUnknownID(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, NewBus(), &mockLogger{})

	if _, err := svc.Update("book-1", "missing", "text"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_Remove(t *testing.T) {
	store := newMockStore()
	svc := NewNoteService(store, NewBus(), &mockLogger{})

	note, err := svc.Add("book-1", "/6/4!/1:0", "text", "note")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.Remove("book-1", note.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	notes, _ := svc.List("book-1")
	if len(notes) != 0 {
		t.Fatalf("expected empty collection, got %d notes", len(notes))
	}

	if err := svc.Remove("book-1", note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound on second remove, got %v", err)
	}
}

func TestReadingListService_CreateAndList(t *testing.T) {
	store := newMockStore()
	svc := NewReadingListService(store, NewBus(), &mockLogger{})

	first, err := svc.Create("to read", []string{"book-1", "book-2"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.Create("finished", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct list ids")
	}

	lists, err := svc.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected two lists, got %d", len(lists))
	}
	if lists[0].Name != "to read" || len(lists[0].Books) != 2 {
		t.Fatalf("unexpected first list: %+v", lists[0])
	}
}
