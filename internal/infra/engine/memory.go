// Package engine provides rendition adapters over concrete rendering
// engines. Memory is a self-contained paginated engine used for local
// development and tests; a real EPUB engine plugs in behind the same
// domain.Rendition interface.
package engine

import (
	"context"
	"fmt"
	"sync"

	"epub-reader-engine/internal/domain"
)

type position struct {
	chapter int
	page    int
}

// Memory is an in-memory paginated rendition. Every chapter has a fixed page
// count and each page gets a synthetic CFI-like location string. Locations
// are opaque to callers, exactly like a real engine's.
type Memory struct {
	mu        sync.Mutex
	title     string
	spine     []domain.SpineItem
	pages     int
	generated bool
	current   position
	relocated []func(domain.LocationEvent)
	ann       *MemoryAnnotations
}

// NewMemory creates an engine over the given spine with pagesPerChapter
// pages in every chapter.
func NewMemory(spine []domain.SpineItem, pagesPerChapter int) *Memory {
	if pagesPerChapter < 1 {
		pagesPerChapter = 1
	}
	return &Memory{
		spine:   spine,
		pages:   pagesPerChapter,
		current: position{chapter: 0, page: 1},
		ann:     NewMemoryAnnotations(),
	}
}

// SetTitle sets the document's metadata title.
func (m *Memory) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
}

// Title returns the document's metadata title.
func (m *Memory) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// SetChapterTitle records the title of a chapter. A real engine learns titles
// from the rendered chapter content, after the view has already relocated; if
// the chapter is the one currently displayed, the position is re-reported so
// observers see the resolved title.
func (m *Memory) SetChapterTitle(chapter int, title string) {
	m.mu.Lock()
	if chapter < 0 || chapter >= len(m.spine) {
		m.mu.Unlock()
		return
	}
	m.spine[chapter].Title = title
	isCurrent := m.current.chapter == chapter
	m.mu.Unlock()

	if isCurrent {
		m.emit(false)
	}
}

// LocationAt returns the location string for a chapter/page pair. Useful for
// seeding tests with known locations.
func (m *Memory) LocationAt(chapter, page int) domain.Location {
	if chapter < 0 || chapter >= len(m.spine) {
		return ""
	}
	href := m.spine[chapter].Href
	return domain.Location(fmt.Sprintf("epubcfi(/6/%d[%s]!/4/%d:0)", (chapter+1)*2, href, page))
}

func (m *Memory) resolve(loc domain.Location) (position, bool) {
	for chapter := range m.spine {
		for page := 1; page <= m.pages; page++ {
			if m.LocationAt(chapter, page) == loc {
				return position{chapter: chapter, page: page}, true
			}
		}
	}
	return position{}, false
}

// GenerateLocations marks the location index ready and returns the total
// location count.
func (m *Memory) GenerateLocations(_ context.Context, _ int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated = true
	return len(m.spine) * m.pages, nil
}

// SpineItems returns the ordered chapter list.
func (m *Memory) SpineItems() []domain.SpineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.SpineItem, len(m.spine))
	copy(items, m.spine)
	return items
}

// SpineItem resolves the chapter containing loc.
func (m *Memory) SpineItem(loc domain.Location) (*domain.SpineItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.resolve(loc)
	if !ok {
		return nil, false
	}
	item := m.spine[pos.chapter]
	return &item, true
}

// Display navigates to loc, or to the document start when loc is empty. A
// location that does not resolve returns an error.
func (m *Memory) Display(_ context.Context, loc domain.Location) error {
	m.mu.Lock()
	if loc.IsZero() {
		m.current = position{chapter: 0, page: 1}
	} else {
		pos, ok := m.resolve(loc)
		if !ok {
			m.mu.Unlock()
			return fmt.Errorf("location %q does not resolve", loc)
		}
		m.current = pos
	}
	m.mu.Unlock()

	m.emit(false)
	return nil
}

// Next turns to the next page, rolling into the next chapter. At the end of
// the book it stays put.
func (m *Memory) Next(_ context.Context) error {
	m.mu.Lock()
	switch {
	case m.current.page < m.pages:
		m.current.page++
	case m.current.chapter < len(m.spine)-1:
		m.current.chapter++
		m.current.page = 1
	}
	m.mu.Unlock()

	m.emit(false)
	return nil
}

// Prev turns to the previous page, rolling into the previous chapter. At the
// start of the book it stays put.
func (m *Memory) Prev(_ context.Context) error {
	m.mu.Lock()
	switch {
	case m.current.page > 1:
		m.current.page--
	case m.current.chapter > 0:
		m.current.chapter--
		m.current.page = m.pages
	}
	m.mu.Unlock()

	m.emit(false)
	return nil
}

// Resize rebuilds the view and reports the unchanged position through a
// reflow-tagged event.
func (m *Memory) Resize(_, _ int) {
	m.emit(true)
}

// Annotations returns the overlay layer.
func (m *Memory) Annotations() domain.Annotations {
	return m.ann
}

// Overlay returns the concrete overlay layer for inspection.
func (m *Memory) Overlay() *MemoryAnnotations {
	return m.ann
}

// OnRelocated registers a location-changed callback.
func (m *Memory) OnRelocated(fn func(domain.LocationEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relocated = append(m.relocated, fn)
}

func (m *Memory) emit(reflow bool) {
	m.mu.Lock()
	pos := m.current
	loc := m.LocationAt(pos.chapter, pos.page)
	fraction := 0.0
	if m.pages > 1 {
		fraction = float64(pos.page-1) / float64(m.pages)
	}
	callbacks := make([]func(domain.LocationEvent), len(m.relocated))
	copy(callbacks, m.relocated)
	m.mu.Unlock()

	ev := domain.LocationEvent{
		Start: domain.LocationPoint{
			Cfi:        loc,
			Percentage: fraction,
			Displayed:  &domain.DisplayedPage{Page: pos.page, Total: m.pages},
		},
		Reflow: reflow,
	}
	for _, fn := range callbacks {
		fn(ev)
	}
}

// MemoryAnnotations is an overlay layer that records add/remove calls. The
// active set counts overlay nodes per (kind, range) so duplicate anchoring is
// observable.
type MemoryAnnotations struct {
	mu     sync.Mutex
	active map[string]int
}

// NewMemoryAnnotations creates an empty overlay layer.
func NewMemoryAnnotations() *MemoryAnnotations {
	return &MemoryAnnotations{active: make(map[string]int)}
}

func overlayKey(kind string, cfiRange domain.Location) string {
	return kind + "|" + string(cfiRange)
}

// Add renders an overlay node for the range.
func (a *MemoryAnnotations) Add(kind string, cfiRange domain.Location, _ map[string]string, _ string, _ map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active[overlayKey(kind, cfiRange)]++
	return nil
}

// Remove strips all overlay nodes for the range. Removing a range with no
// overlay is harmless.
func (a *MemoryAnnotations) Remove(cfiRange domain.Location, kind string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.active, overlayKey(kind, cfiRange))
	return nil
}

// Count returns the number of overlay nodes for the range.
func (a *MemoryAnnotations) Count(kind string, cfiRange domain.Location) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active[overlayKey(kind, cfiRange)]
}

// ActiveRanges returns the distinct ranges currently rendered for a kind.
func (a *MemoryAnnotations) ActiveRanges(kind string) []domain.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	var ranges []domain.Location
	prefix := kind + "|"
	for key, count := range a.active {
		if count > 0 && len(key) > len(prefix) && key[:len(prefix)] == prefix {
			ranges = append(ranges, domain.Location(key[len(prefix):]))
		}
	}
	return ranges
}
