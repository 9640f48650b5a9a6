package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"epub-reader-engine/internal/domain"
)

// ProgressKey returns the storage key for the device's current reading
// progress in a book.
func ProgressKey(bookKey string) string {
	return "reading-progress-" + bookKey
}

// SessionController is the single source of truth for where the reader is in
// one open book and how far through it they are. It orchestrates the
// bookmark, highlight and note managers against rendering-engine lifecycle
// events and exposes the navigation API.
//
// All engine interactions are guarded: with no usable engine an operation is
// a no-op, never an error surfaced to the user. Progress persistence failures
// are logged and retried on the next event; they never block navigation.
type SessionController struct {
	bookKey    string
	rendition  domain.Rendition
	store      domain.DeviceStore
	sync       domain.ProgressSyncRepository
	bus        domain.EventBus
	bookmarks  domain.BookmarkService
	highlights domain.HighlightService
	logger     domain.Logger
	config     domain.Config

	saveDebounce   *Debouncer
	resizeDebounce *Debouncer

	navInFlight atomic.Bool

	mu             sync.Mutex
	ready          bool
	title          string
	totalLocations int
	spine          []domain.SpineItem
	current        domain.Location
	percent        int
	chapterIndex   int
	page           domain.PageInfo
	chapterTitle   string
	unsubs         []func()
}

// SessionDeps bundles the collaborators a session controller is wired with.
// Sync may be nil when cross-device sync is not configured.
type SessionDeps struct {
	Store      domain.DeviceStore
	Sync       domain.ProgressSyncRepository
	Bus        domain.EventBus
	Bookmarks  domain.BookmarkService
	Highlights domain.HighlightService
	Logger     domain.Logger
	Clock      Clock
	Config     domain.Config
}

// NewSessionController creates a controller for one book over one rendition.
func NewSessionController(bookKey string, rendition domain.Rendition, deps SessionDeps) *SessionController {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &SessionController{
		bookKey:    bookKey,
		rendition:  rendition,
		store:      deps.Store,
		sync:       deps.Sync,
		bus:        deps.Bus,
		bookmarks:  deps.Bookmarks,
		highlights: deps.Highlights,
		logger:     deps.Logger,
		config:     deps.Config,
		// Progress saves and resize re-layouts coalesce independently: a
		// resize burst must not be mistaken for position changes.
		saveDebounce:   NewDebouncer(deps.Config.GetProgressDebounce(), clock),
		resizeDebounce: NewDebouncer(deps.Config.GetResizeDebounce(), clock),
	}
}

// BookKey returns the book this session is reading.
func (s *SessionController) BookKey() string {
	return s.bookKey
}

// Open runs the engine's asynchronous location-index generation, wires the
// event subscriptions, restores the last reading position and anchors the
// persisted highlights. Until Open returns, no progress percentage is
// meaningful.
func (s *SessionController) Open(ctx context.Context) error {
	if s.rendition == nil {
		return domain.ErrEngineUnavailable
	}

	total, err := s.rendition.GenerateLocations(ctx, s.granularity())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.title = s.rendition.Title()
	s.spine = s.rendition.SpineItems()
	s.totalLocations = total
	s.ready = true
	s.page.Ready = true
	s.unsubs = append(s.unsubs,
		s.bus.Subscribe(domain.EventChapterTitleResolved, s.onChapterTitleResolved),
		s.bus.Subscribe(domain.EventHighlightAdded, s.onHighlightAdded),
		s.bus.Subscribe(domain.EventHighlightRemoved, s.onHighlightRemoved),
	)
	s.mu.Unlock()

	s.rendition.OnRelocated(s.HandleLocationChanged)
	s.logger.Info("Document ready", "book_key", s.bookKey, "chapters", len(s.spine), "locations", total)

	s.RestoreLastPosition(ctx)

	if err := s.highlights.ReapplyAll(s.bookKey, s.rendition.Annotations()); err != nil {
		s.logger.Error("Failed to anchor highlights on open", err, "book_key", s.bookKey)
	}
	return nil
}

// HandleLocationChanged is the engine's location-changed callback. It resolves
// the spine position, recomputes progress and page info, schedules a debounced
// persistence write, and re-anchors highlights when the change came from a
// reflow rather than navigation.
func (s *SessionController) HandleLocationChanged(ev domain.LocationEvent) {
	if s.rendition == nil {
		return
	}
	cfi := ev.Start.Cfi
	if cfi.IsZero() {
		s.logger.Warn("Ignoring location event without a location", "book_key", s.bookKey)
		return
	}

	s.mu.Lock()
	if !s.ready {
		s.current = cfi
		s.mu.Unlock()
		return
	}

	spineIndex := 0
	var resolvedTitle string
	if item, ok := s.rendition.SpineItem(cfi); ok {
		spineIndex = item.Index
		// The engine resolves chapter titles from rendered content, so
		// the title may only become known on a later event for the same
		// position. Announce it once per change; bookmarks created
		// before it resolved get patched by the subscriber.
		if item.Title != s.chapterTitle {
			s.chapterTitle = item.Title
			resolvedTitle = item.Title
		}
	}

	s.current = cfi
	s.chapterIndex = spineIndex
	s.percent = OverallPercent(spineIndex, len(s.spine), ev.Start.Percentage)

	// Only trust page data the engine actually reported; otherwise the
	// previous page info stands.
	if d := ev.Start.Displayed; d != nil && d.Total > 0 {
		s.page.ChapterCurrent = d.Page
		s.page.ChapterTotal = d.Total
		s.page.Current = spineIndex*d.Total + d.Page
		s.page.Total = len(s.spine) * d.Total
	}
	s.mu.Unlock()

	s.logger.Debug("Location changed", "book_key", s.bookKey, "cfi", string(cfi), "percent", s.percent)

	if resolvedTitle != "" {
		s.bus.Publish(domain.Event{
			Type:     domain.EventChapterTitleResolved,
			BookKey:  s.bookKey,
			Location: cfi,
			Title:    resolvedTitle,
		})
	}

	s.saveDebounce.Trigger(s.persistProgress)

	if ev.Reflow {
		if err := s.highlights.ReapplyAll(s.bookKey, s.rendition.Annotations()); err != nil {
			s.logger.Error("Failed to re-anchor highlights after reflow", err, "book_key", s.bookKey)
		}
	}
}

// RestoreLastPosition navigates to the most recently saved position for the
// book, falling back to the document's natural beginning when no record
// exists or the stored location no longer resolves. It never fails hard.
func (s *SessionController) RestoreLastPosition(ctx context.Context) {
	if s.rendition == nil {
		return
	}

	loc := s.lookupSavedLocation()
	if loc.IsZero() {
		if err := s.rendition.Display(ctx, ""); err != nil {
			s.logger.Error("Failed to display document start", err, "book_key", s.bookKey)
		}
		return
	}

	if err := s.rendition.Display(ctx, loc); err != nil {
		s.logger.Warn("Saved position no longer resolves, starting from beginning",
			"book_key", s.bookKey, "cfi", string(loc), "error", err)
		if err := s.rendition.Display(ctx, ""); err != nil {
			s.logger.Error("Failed to display document start", err, "book_key", s.bookKey)
		}
	}
}

// NavigateNext turns to the next page. A navigation already in flight drops
// the request; engine errors are logged and swallowed, the page simply does
// not turn.
func (s *SessionController) NavigateNext(ctx context.Context) {
	if s.rendition == nil {
		return
	}
	s.navigate(ctx, "next", s.rendition.Next)
}

// NavigatePrev turns to the previous page, with the same overlap and error
// policy as NavigateNext.
func (s *SessionController) NavigatePrev(ctx context.Context) {
	if s.rendition == nil {
		return
	}
	s.navigate(ctx, "prev", s.rendition.Prev)
}

func (s *SessionController) navigate(ctx context.Context, direction string, turn func(context.Context) error) {
	if !s.navInFlight.CompareAndSwap(false, true) {
		s.logger.Debug("Navigation already in flight, dropping request", "book_key", s.bookKey, "direction", direction)
		return
	}
	defer s.navInFlight.Store(false)

	if err := turn(ctx); err != nil {
		s.logger.Error("Page turn failed", err, "book_key", s.bookKey, "direction", direction)
	}
}

// GoTo navigates to an exact location (bookmark or highlight target). A
// location that no longer resolves is logged and swallowed.
func (s *SessionController) GoTo(ctx context.Context, loc domain.Location) {
	if s.rendition == nil || loc.IsZero() {
		return
	}
	if err := s.rendition.Display(ctx, loc); err != nil {
		s.logger.Error("Failed to navigate to location", err, "book_key", s.bookKey, "cfi", string(loc))
	}
}

// Resize schedules a debounced engine re-layout. The engine reports the
// resulting position through a reflow-tagged location event, which triggers
// highlight re-anchoring.
func (s *SessionController) Resize(width, height int) {
	if s.rendition == nil {
		return
	}
	s.resizeDebounce.Trigger(func() {
		s.rendition.Resize(width, height)
	})
}

// ToggleBookmark bookmarks the current location, or reports
// domain.ErrBookmarkExists when it is already bookmarked.
func (s *SessionController) ToggleBookmark() (*domain.Bookmark, error) {
	s.mu.Lock()
	loc := s.current
	s.mu.Unlock()
	if loc.IsZero() {
		return nil, nil
	}
	return s.bookmarks.Toggle(s.bookKey, loc, s.bookmarkContext)
}

// Document returns the structural view of the open book: the spine and, once
// the index generation has run, the total location count.
func (s *SessionController) Document() domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	spine := make([]domain.SpineItem, len(s.spine))
	copy(spine, s.spine)
	return domain.Document{
		BookKey:        s.bookKey,
		Title:          s.title,
		Spine:          spine,
		TotalLocations: s.totalLocations,
	}
}

// Progress returns the in-memory progress snapshot and page info. The
// snapshot is nil until the location index is ready.
func (s *SessionController) Progress() (*domain.ReadingProgress, domain.PageInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, domain.PageInfo{}
	}
	return s.snapshotLocked(""), s.page
}

// Close flushes any pending progress write, releases the debouncers and
// unsubscribes from the bus. The current position is persisted immediately so
// nothing is lost between the last debounce window and teardown.
func (s *SessionController) Close() {
	s.saveDebounce.Stop()
	s.resizeDebounce.Stop()

	s.mu.Lock()
	hasPosition := s.ready && !s.current.IsZero()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	if hasPosition {
		s.persistProgress()
	}
	for _, unsub := range unsubs {
		unsub()
	}
	s.logger.Info("Reader session closed", "book_key", s.bookKey)
}

// persistProgress writes the current position to the device store and, when
// configured, pushes it to the sync repository. Failures are logged only; the
// next location event retries.
func (s *SessionController) persistProgress() {
	deviceID, err := s.store.DeviceID()
	if err != nil {
		s.logger.Error("Failed to resolve device id", err, "book_key", s.bookKey)
		return
	}

	s.mu.Lock()
	rec := s.snapshotLocked(deviceID)
	s.mu.Unlock()
	if rec == nil || rec.Location.IsZero() {
		return
	}

	if err := s.store.Set(ProgressKey(s.bookKey), rec); err != nil {
		s.logger.Error("Failed to persist reading progress", err, "book_key", s.bookKey)
		return
	}

	if s.sync != nil {
		if err := s.sync.Upsert(rec); err != nil {
			s.logger.Warn("Progress sync failed, will retry on next save", "book_key", s.bookKey, "error", err)
		}
	}
}

func (s *SessionController) lookupSavedLocation() domain.Location {
	var rec domain.ReadingProgress
	found, err := s.store.Get(ProgressKey(s.bookKey), &rec)
	if err != nil {
		s.logger.Error("Failed to read saved progress", err, "book_key", s.bookKey)
	}
	if found && !rec.Location.IsZero() {
		return rec.Location
	}

	if s.sync != nil {
		remote, err := s.sync.Latest(s.bookKey)
		if err == nil && remote != nil {
			s.logger.Info("Restoring position from sync", "book_key", s.bookKey, "device_id", remote.DeviceID)
			return remote.Location
		}
		if err != nil && err != domain.ErrProgressNotFound {
			s.logger.Warn("Progress sync lookup failed", "book_key", s.bookKey, "error", err)
		}
	}
	return ""
}

func (s *SessionController) snapshotLocked(deviceID string) *domain.ReadingProgress {
	if s.current.IsZero() {
		return nil
	}
	return &domain.ReadingProgress{
		BookKey:       s.bookKey,
		Location:      s.current,
		Percent:       s.percent,
		ChapterIndex:  s.chapterIndex,
		PageInChapter: s.page.ChapterCurrent,
		ChapterPages:  s.page.ChapterTotal,
		SavedAt:       time.Now(),
		DeviceID:      deviceID,
	}
}

func (s *SessionController) bookmarkContext() domain.BookmarkContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.chapterIndex
	return domain.BookmarkContext{
		ChapterIndex: &idx,
		ChapterTitle: s.chapterTitle,
		Page:         s.page,
	}
}

func (s *SessionController) onChapterTitleResolved(e domain.Event) {
	if e.BookKey != s.bookKey || e.Title == "" {
		return
	}

	s.mu.Lock()
	s.chapterTitle = e.Title
	loc := s.current
	s.mu.Unlock()

	if err := s.bookmarks.PatchChapterInfo(s.bookKey, loc, s.bookmarkContext()); err != nil {
		s.logger.Error("Failed to patch bookmark chapter info", err, "book_key", s.bookKey)
	}
}

func (s *SessionController) onHighlightAdded(e domain.Event) {
	if e.BookKey != s.bookKey || s.rendition == nil {
		return
	}
	err := s.rendition.Annotations().Add(
		domain.AnnotationHighlight,
		e.Location,
		map[string]string{"id": e.HighlightID},
		"highlight-"+string(e.Color),
		highlightStyles(e.Color),
	)
	if err != nil {
		s.logger.Error("Failed to anchor highlight", err, "book_key", s.bookKey, "highlight_id", e.HighlightID)
	}
}

func (s *SessionController) onHighlightRemoved(e domain.Event) {
	if e.BookKey != s.bookKey || s.rendition == nil {
		return
	}
	// The persisted collection was already updated; a failed strip only
	// leaves a stale overlay until the next rebuild.
	if err := s.rendition.Annotations().Remove(e.Location, domain.AnnotationHighlight); err != nil {
		s.logger.Warn("Failed to strip highlight overlay", "book_key", s.bookKey, "highlight_id", e.HighlightID, "error", err)
	}
}

func (s *SessionController) granularity() int {
	if s.config != nil {
		return s.config.GetLocationGranularity()
	}
	return 1024
}
