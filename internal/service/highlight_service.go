package service

import (
	"time"

	"epub-reader-engine/internal/domain"

	"github.com/google/uuid"
)

// highlightStyles is the annotation styling applied to every anchored
// highlight, keyed by color.
func highlightStyles(color domain.HighlightColor) map[string]string {
	return map[string]string{
		"fill":           string(color),
		"fill-opacity":   "0.3",
		"mix-blend-mode": "multiply",
	}
}

// HighlightService implements domain.HighlightService over the device store.
// The persisted collection is authoritative; anchoring into the live view is
// driven by events and by ReapplyAll after view rebuilds.
type HighlightService struct {
	store  domain.DeviceStore
	bus    domain.EventBus
	logger domain.Logger
}

// NewHighlightService creates a new highlight service
func NewHighlightService(store domain.DeviceStore, bus domain.EventBus, logger domain.Logger) *HighlightService {
	return &HighlightService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Add persists a new highlight with a fresh UUID and asks the live view to
// anchor it. Without a book key it is a no-op.
func (s *HighlightService) Add(bookKey string, cfiRange domain.Location, text, note string, color domain.HighlightColor) (*domain.Highlight, error) {
	if bookKey == "" {
		return nil, nil
	}
	if !color.Valid() {
		color = domain.HighlightYellow
	}

	highlight := &domain.Highlight{
		ID:        uuid.NewString(),
		BookKey:   bookKey,
		CfiRange:  cfiRange,
		Color:     color,
		Text:      text,
		Note:      note,
		CreatedAt: time.Now(),
	}

	highlights, err := s.load(bookKey)
	if err != nil {
		return nil, err
	}
	highlights = append(highlights, highlight)
	if err := s.save(bookKey, highlights); err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.EventHighlightAdded,
		BookKey:     bookKey,
		Location:    cfiRange,
		HighlightID: highlight.ID,
		Color:       color,
	})
	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})

	s.logger.Info("Highlight added", "book_key", bookKey, "highlight_id", highlight.ID)
	return highlight, nil
}

// Remove deletes the highlight by id. The collection is updated first; the
// visual removal event follows, so state stays authoritative even when the
// overlay strip fails. An unknown id logs and returns nil.
func (s *HighlightService) Remove(bookKey, id string) error {
	if bookKey == "" {
		return nil
	}

	highlights, err := s.load(bookKey)
	if err != nil {
		return err
	}

	var removed *domain.Highlight
	kept := highlights[:0]
	for _, h := range highlights {
		if h.ID == id {
			removed = h
			continue
		}
		kept = append(kept, h)
	}

	if removed == nil {
		s.logger.Warn("Highlight already removed", "book_key", bookKey, "highlight_id", id)
		return nil
	}

	if err := s.save(bookKey, kept); err != nil {
		return err
	}

	s.bus.Publish(domain.Event{
		Type:        domain.EventHighlightRemoved,
		BookKey:     bookKey,
		Location:    removed.CfiRange,
		HighlightID: id,
	})
	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})

	s.logger.Info("Highlight removed", "book_key", bookKey, "highlight_id", id)
	return nil
}

// List returns the persisted highlight collection for the book.
func (s *HighlightService) List(bookKey string) ([]*domain.Highlight, error) {
	if bookKey == "" {
		return nil, nil
	}
	return s.load(bookKey)
}

// ReapplyAll re-anchors every persisted highlight into ann. Each range is
// removed and re-added unconditionally so stale overlay nodes from the torn
// down view never stack, which also makes repeating the resync harmless.
func (s *HighlightService) ReapplyAll(bookKey string, ann domain.Annotations) error {
	if bookKey == "" || ann == nil {
		return nil
	}

	highlights, err := s.load(bookKey)
	if err != nil {
		return err
	}

	for _, h := range highlights {
		if err := ann.Remove(h.CfiRange, domain.AnnotationHighlight); err != nil {
			s.logger.Debug("Annotation remove during resync", "highlight_id", h.ID, "error", err)
		}
		err := ann.Add(
			domain.AnnotationHighlight,
			h.CfiRange,
			map[string]string{"id": h.ID},
			"highlight-"+string(h.Color),
			highlightStyles(h.Color),
		)
		if err != nil {
			s.logger.Error("Failed to re-anchor highlight", err, "book_key", bookKey, "highlight_id", h.ID)
		}
	}
	return nil
}

func (s *HighlightService) load(bookKey string) ([]*domain.Highlight, error) {
	var highlights []*domain.Highlight
	if _, err := s.store.Get(domain.HighlightsKey(bookKey), &highlights); err != nil {
		return nil, err
	}
	return highlights, nil
}

func (s *HighlightService) save(bookKey string, highlights []*domain.Highlight) error {
	return s.store.Set(domain.HighlightsKey(bookKey), highlights)
}
