package service

import (
	"testing"

	"epub-reader-engine/internal/domain"
	"epub-reader-engine/internal/infra/engine"
)

func TestHighlightService_AddRoundTrip(t *testing.T) {
	store := newMockStore()
	svc := NewHighlightService(store, NewBus(), &mockLogger{})

	first, err := svc.Add("book-1", "/6/4!/4/2,/1:0,/1:42", "a memorable passage", "worth rereading", domain.HighlightYellow)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if first == nil || first.ID == "" {
		t.Fatalf("expected a highlight with a fresh id")
	}

	second, err := svc.Add("book-1", "/6/6!/4/2,/1:0,/1:10", "another one", "", domain.HighlightYellow)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected distinct ids for distinct highlights")
	}

	highlights, err := svc.List("book-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(highlights) != 2 {
		t.Fatalf("expected two persisted highlights, got %d", len(highlights))
	}
	if highlights[0].CfiRange != first.CfiRange || highlights[0].Text != "a memorable passage" || highlights[0].Color != domain.HighlightYellow {
		t.Fatalf("persisted highlight does not match input: %+v", highlights[0])
	}
	if highlights[0].Note != "worth rereading" || highlights[1].Note != "" {
		t.Fatalf("persisted notes do not match input: %q, %q", highlights[0].Note, highlights[1].Note)
	}
}

func TestHighlightService_AddWithoutBookKey(t *testing.T) {
	store := newMockStore()
	svc := NewHighlightService(store, NewBus(), &mockLogger{})

	highlight, err := svc.Add("", "/6/4!/1:0", "text", "", domain.HighlightYellow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if highlight != nil {
		t.Fatalf("expected nil highlight without a book key")
	}
	if store.writeCount() != 0 {
		t.Fatalf("expected no storage write, got %d", store.writeCount())
	}
}

func TestHighlightService_RemoveUnknownID(t *testing.T) {
	store := newMockStore()
	svc := NewHighlightService(store, NewBus(), &mockLogger{})

	if _, err := svc.Add("book-1", "/6/4!/1:0", "text", "", domain.HighlightYellow); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	before, _ := svc.List("book-1")

	if err := svc.Remove("book-1", "not-a-real-id"); err != nil {
		t.Fatalf("expected already-removed to be a no-op, got %v", err)
	}

	after, _ := svc.List("book-1")
	if len(after) != len(before) {
		t.Fatalf("expected collection unchanged, had %d now %d", len(before), len(after))
	}
}

func TestHighlightService_RemoveEmitsAfterStateUpdate(t *testing.T) {
	store := newMockStore()
	bus := NewBus()
	svc := NewHighlightService(store, bus, &mockLogger{})

	highlight, err := svc.Add("book-1", "/6/4!/1:0", "text", "", domain.HighlightYellow)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var collectionAtEvent int
	bus.Subscribe(domain.EventHighlightRemoved, func(e domain.Event) {
		remaining, _ := svc.List("book-1")
		collectionAtEvent = len(remaining)
	})

	if err := svc.Remove("book-1", highlight.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if collectionAtEvent != 0 {
		t.Fatalf("expected state updated before removal event, saw %d highlights", collectionAtEvent)
	}
}

func TestHighlightService_ReapplyAllIsIdempotent(t *testing.T) {
	store := newMockStore()
	svc := NewHighlightService(store, NewBus(), &mockLogger{})

	ranges := []domain.Location{"/6/4!/1:0,/1:10", "/6/6!/2:0,/2:5"}
	for _, cfiRange := range ranges {
		if _, err := svc.Add("book-1", cfiRange, "text", "", domain.HighlightYellow); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	overlay := engine.NewMemoryAnnotations()
	if err := svc.ReapplyAll("book-1", overlay); err != nil {
		t.Fatalf("first reapply failed: %v", err)
	}
	if err := svc.ReapplyAll("book-1", overlay); err != nil {
		t.Fatalf("second reapply failed: %v", err)
	}

	if got := len(overlay.ActiveRanges(domain.AnnotationHighlight)); got != len(ranges) {
		t.Fatalf("expected %d rendered ranges, got %d", len(ranges), got)
	}
	for _, cfiRange := range ranges {
		if count := overlay.Count(domain.AnnotationHighlight, cfiRange); count != 1 {
			t.Fatalf("expected exactly one overlay node for %s, got %d", cfiRange, count)
		}
	}
}
