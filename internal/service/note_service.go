package service

import (
	"time"

	"epub-reader-engine/internal/domain"

	"github.com/google/uuid"
)

// NoteService implements domain.NoteService over the device store. Notes are
// never anchored into the view; they are surfaced through a selection UI, so
// the lifecycle is plain CRUD.
type NoteService struct {
	store  domain.DeviceStore
	bus    domain.EventBus
	logger domain.Logger
}

// NewNoteService creates a new note service
func NewNoteService(store domain.DeviceStore, bus domain.EventBus, logger domain.Logger) *NoteService {
	return &NoteService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Add creates a note on the given range. Without a book key it is a no-op
// returning (nil, nil) and writes nothing.
func (s *NoteService) Add(bookKey string, cfiRange domain.Location, text, noteText string) (*domain.Note, error) {
	if bookKey == "" {
		return nil, nil
	}

	now := time.Now()
	note := &domain.Note{
		ID:        uuid.NewString(),
		BookKey:   bookKey,
		CfiRange:  cfiRange,
		Text:      text,
		NoteText:  noteText,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes, err := s.load(bookKey)
	if err != nil {
		return nil, err
	}
	notes = append(notes, note)
	if err := s.save(bookKey, notes); err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})
	s.logger.Info("Note added", "book_key", bookKey, "note_id", note.ID)
	return note, nil
}

// Update replaces the user-authored text of the note and bumps UpdatedAt.
func (s *NoteService) Update(bookKey, id, noteText string) (*domain.Note, error) {
	if bookKey == "" {
		return nil, nil
	}

	notes, err := s.load(bookKey)
	if err != nil {
		return nil, err
	}

	var updated *domain.Note
	for _, note := range notes {
		if note.ID == id {
			note.NoteText = noteText
			note.UpdatedAt = time.Now()
			updated = note
			break
		}
	}
	if updated == nil {
		return nil, domain.ErrNoteNotFound
	}

	if err := s.save(bookKey, notes); err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})
	return updated, nil
}

// Remove deletes the note by id.
func (s *NoteService) Remove(bookKey, id string) error {
	if bookKey == "" {
		return nil
	}

	notes, err := s.load(bookKey)
	if err != nil {
		return err
	}

	kept := notes[:0]
	removed := false
	for _, note := range notes {
		if note.ID == id {
			removed = true
			continue
		}
		kept = append(kept, note)
	}
	if !removed {
		return domain.ErrNoteNotFound
	}

	if err := s.save(bookKey, kept); err != nil {
		return err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})
	s.logger.Info("Note removed", "book_key", bookKey, "note_id", id)
	return nil
}

// List returns the persisted note collection for the book.
func (s *NoteService) List(bookKey string) ([]*domain.Note, error) {
	if bookKey == "" {
		return nil, nil
	}
	return s.load(bookKey)
}

func (s *NoteService) load(bookKey string) ([]*domain.Note, error) {
	var notes []*domain.Note
	if _, err := s.store.Get(domain.NotesKey(bookKey), &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteService) save(bookKey string, notes []*domain.Note) error {
	return s.store.Set(domain.NotesKey(bookKey), notes)
}
