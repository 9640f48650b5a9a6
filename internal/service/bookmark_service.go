package service

import (
	"fmt"
	"time"

	"epub-reader-engine/internal/domain"
)

// BookmarkService implements domain.BookmarkService over the device store.
// Bookmark identity is the exact location string; two locations differing by
// any character are distinct bookmarks.
type BookmarkService struct {
	store  domain.DeviceStore
	bus    domain.EventBus
	logger domain.Logger
	settle time.Duration
	sleep  func(time.Duration)
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(store domain.DeviceStore, bus domain.EventBus, settle time.Duration, logger domain.Logger) *BookmarkService {
	return &BookmarkService{
		store:  store,
		bus:    bus,
		logger: logger,
		settle: settle,
		sleep:  time.Sleep,
	}
}

// Toggle creates a bookmark at loc, or reports ErrBookmarkExists when the
// exact location is already bookmarked.
func (s *BookmarkService) Toggle(bookKey string, loc domain.Location, current func() domain.BookmarkContext) (*domain.Bookmark, error) {
	if bookKey == "" || loc.IsZero() {
		return nil, nil
	}

	key := domain.BookmarkKey(loc)
	var existing domain.Bookmark
	found, err := s.store.Get(key, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, domain.ErrBookmarkExists
	}

	// Give the engine a moment to report page metadata for the new view
	// before the labels are synthesized.
	if s.settle > 0 {
		s.sleep(s.settle)
	}
	ctx := current()

	now := time.Now()
	bookmark := &domain.Bookmark{
		Cfi:         loc,
		BookKey:     bookKey,
		CreatedAt:   now,
		ChapterInfo: chapterLabel(ctx),
		PageInfo:    pageLabel(ctx.Page),
		Metadata: domain.BookmarkMetadata{
			ChapterIndex:  ctx.ChapterIndex,
			ChapterTitle:  ctx.ChapterTitle,
			PageNumber:    ctx.Page.ChapterCurrent,
			TotalPages:    ctx.Page.ChapterTotal,
			ExactLocation: loc,
		},
	}

	if err := s.store.Set(key, bookmark); err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})
	s.logger.Info("Bookmark added", "book_key", bookKey, "cfi", string(loc), "chapter", bookmark.ChapterInfo)
	return bookmark, nil
}

// Remove deletes the bookmark at the exact location.
func (s *BookmarkService) Remove(loc domain.Location) error {
	key := domain.BookmarkKey(loc)
	var existing domain.Bookmark
	found, err := s.store.Get(key, &existing)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrBookmarkNotFound
	}

	if err := s.store.Delete(key); err != nil {
		return err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: existing.BookKey})
	s.logger.Info("Bookmark removed", "book_key", existing.BookKey, "cfi", string(loc))
	return nil
}

// List returns every bookmark stored for the book.
func (s *BookmarkService) List(bookKey string) ([]*domain.Bookmark, error) {
	keys, err := s.store.Keys(domain.BookmarkKeyPrefix)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]*domain.Bookmark, 0, len(keys))
	for _, key := range keys {
		var bookmark domain.Bookmark
		found, err := s.store.Get(key, &bookmark)
		if err != nil {
			return nil, err
		}
		if found && bookmark.BookKey == bookKey {
			b := bookmark
			bookmarks = append(bookmarks, &b)
		}
	}
	return bookmarks, nil
}

// PatchChapterInfo rewrites the labels of an existing bookmark at loc after
// its chapter title resolved asynchronously. A missing bookmark is a no-op.
func (s *BookmarkService) PatchChapterInfo(bookKey string, loc domain.Location, ctx domain.BookmarkContext) error {
	if loc.IsZero() {
		return nil
	}

	key := domain.BookmarkKey(loc)
	var bookmark domain.Bookmark
	found, err := s.store.Get(key, &bookmark)
	if err != nil || !found {
		return err
	}

	bookmark.ChapterInfo = chapterLabel(ctx)
	bookmark.PageInfo = pageLabel(ctx.Page)
	bookmark.Metadata.ChapterTitle = ctx.ChapterTitle
	bookmark.Metadata.ChapterIndex = ctx.ChapterIndex
	bookmark.Metadata.PageNumber = ctx.Page.ChapterCurrent
	bookmark.Metadata.TotalPages = ctx.Page.ChapterTotal

	if err := s.store.Set(key, &bookmark); err != nil {
		return err
	}

	s.bus.Publish(domain.Event{Type: domain.EventStorageChanged, BookKey: bookKey})
	s.logger.Debug("Bookmark chapter info patched", "book_key", bookKey, "cfi", string(loc), "title", ctx.ChapterTitle)
	return nil
}

func chapterLabel(ctx domain.BookmarkContext) string {
	if ctx.ChapterIndex != nil {
		return fmt.Sprintf("Chapter %d: %s", *ctx.ChapterIndex+1, ctx.ChapterTitle)
	}
	return ctx.ChapterTitle
}

func pageLabel(page domain.PageInfo) string {
	return fmt.Sprintf("Page %d of %d", page.ChapterCurrent, page.ChapterTotal)
}
