package service

import (
	"time"

	"epub-reader-engine/internal/domain"

	"github.com/google/uuid"
)

// ReadingListService implements domain.ReadingListService over the device
// store. All lists live under a single key and are rewritten whole.
type ReadingListService struct {
	store  domain.DeviceStore
	bus    domain.EventBus
	logger domain.Logger
}

// NewReadingListService creates a new reading list service
func NewReadingListService(store domain.DeviceStore, bus domain.EventBus, logger domain.Logger) *ReadingListService {
	return &ReadingListService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Create appends a new named list of book keys.
func (s *ReadingListService) Create(name string, books []string) (*domain.ReadingList, error) {
	list := &domain.ReadingList{
		ID:        uuid.NewString(),
		Name:      name,
		Books:     books,
		CreatedAt: time.Now(),
	}

	lists, err := s.List()
	if err != nil {
		return nil, err
	}
	lists = append(lists, list)
	if err := s.store.Set(domain.ReadingListsKey, lists); err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged})
	s.logger.Info("Reading list created", "list_id", list.ID, "name", name, "books", len(books))
	return list, nil
}

// List returns every reading list on the device.
func (s *ReadingListService) List() ([]*domain.ReadingList, error) {
	var lists []*domain.ReadingList
	if _, err := s.store.Get(domain.ReadingListsKey, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}
