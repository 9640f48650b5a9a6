package config

import (
	"fmt"

	"epub-reader-engine/internal/domain"
	"epub-reader-engine/internal/infra/engine"
	"epub-reader-engine/internal/repository"
	"epub-reader-engine/internal/service"
	"epub-reader-engine/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config       domain.Config
	Logger       domain.Logger
	Store        domain.DeviceStore
	Bus          domain.EventBus
	ProgressSync domain.ProgressSyncRepository
	Bookmarks    domain.BookmarkService
	Highlights   domain.HighlightService
	Notes        domain.NoteService
	ReadingLists domain.ReadingListService
	Sessions     *service.SessionRegistry
}

// NewContainer creates a new dependency injection container. The rendition
// factory decides which engine adapter backs opened books; pass nil to use
// the in-memory development engine.
func NewContainer(factory service.RenditionFactory) (*Container, error) {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	store, err := repository.OpenStore(cfg.GetStorePath(), cfg.GetDeviceIDTTL(), appLogger)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	bus := service.NewBus()

	// Cross-device sync is optional: without Supabase credentials the
	// device store alone is authoritative.
	var progressSync domain.ProgressSyncRepository
	if cfg.GetSupabaseURL() != "" && cfg.GetSupabaseKey() != "" {
		supabaseClient := repository.NewSupabaseClient(cfg, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Warn("Progress sync disabled", "error", err)
		} else {
			progressSync = repository.NewSupabaseProgressRepository(supabaseClient, appLogger)
		}
	}

	bookmarks := service.NewBookmarkService(store, bus, cfg.GetBookmarkSettleDelay(), appLogger)
	highlights := service.NewHighlightService(store, bus, appLogger)
	notes := service.NewNoteService(store, bus, appLogger)
	readingLists := service.NewReadingListService(store, bus, appLogger)

	if factory == nil {
		factory = devEngineFactory()
	}

	sessions := service.NewSessionRegistry(service.SessionDeps{
		Store:      store,
		Sync:       progressSync,
		Bus:        bus,
		Bookmarks:  bookmarks,
		Highlights: highlights,
		Logger:     appLogger,
		Config:     cfg,
	}, factory)

	return &Container{
		Config:       cfg,
		Logger:       appLogger,
		Store:        store,
		Bus:          bus,
		ProgressSync: progressSync,
		Bookmarks:    bookmarks,
		Highlights:   highlights,
		Notes:        notes,
		ReadingLists: readingLists,
		Sessions:     sessions,
	}, nil
}

// devEngineFactory backs every book with the in-memory engine: a fixed
// twelve-chapter spine with twenty pages per chapter.
func devEngineFactory() service.RenditionFactory {
	return func(bookKey string) (domain.Rendition, error) {
		spine := make([]domain.SpineItem, 12)
		for i := range spine {
			spine[i] = domain.SpineItem{
				Index: i,
				Href:  fmt.Sprintf("chapter-%02d.xhtml", i+1),
				Title: fmt.Sprintf("Chapter %d", i+1),
			}
		}
		m := engine.NewMemory(spine, 20)
		m.SetTitle(bookKey)
		return m, nil
	}
}

// Close releases container resources.
func (c *Container) Close() {
	c.Sessions.CloseAll()
	if err := c.Store.Close(); err != nil {
		c.Logger.Error("Failed to close device store", err)
	}
}
