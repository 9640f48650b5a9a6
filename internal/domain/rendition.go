package domain

import "context"

// AnnotationHighlight is the annotation layer kind used for highlights.
const AnnotationHighlight = "highlight"

// Annotations is the rendering engine's overlay layer. Add registers a range
// so it is visually rendered; Remove strips it. Remove on a range that is not
// currently rendered must be harmless, since the resync procedure is
// unconditional remove-then-add.
type Annotations interface {
	Add(kind string, cfiRange Location, data map[string]string, className string, styles map[string]string) error
	Remove(cfiRange Location, kind string) error
}

// Rendition is the narrow capability interface over the external EPUB
// rendering engine. The core depends only on these operations; an adapter
// maps them onto whatever concrete engine is in use, isolating the core from
// engine-internal shape changes.
type Rendition interface {
	// Title returns the document title from the book's metadata, or ""
	// when the metadata carries none.
	Title() string

	// GenerateLocations builds the engine's location index at the given
	// granularity and returns the total location count. It is the one slow
	// suspension point: progress percentages are meaningless before it
	// completes.
	GenerateLocations(ctx context.Context, granularity int) (int, error)

	// SpineItems returns the ordered chapter list.
	SpineItems() []SpineItem

	// SpineItem resolves the chapter containing the given location.
	SpineItem(loc Location) (*SpineItem, bool)

	// Display navigates to the given location. An empty location means the
	// document's natural beginning. A location that no longer resolves
	// returns an error; callers fall back to the beginning.
	Display(ctx context.Context, loc Location) error

	// Next and Prev are the page-turn primitives.
	Next(ctx context.Context) error
	Prev(ctx context.Context) error

	// Resize re-lays out the view for new dimensions. The engine reports
	// the resulting position through a reflow-tagged location event.
	Resize(width, height int)

	// Annotations returns the overlay layer for the current view.
	Annotations() Annotations

	// OnRelocated registers the location-changed callback. Events arrive
	// in the order the engine produces them.
	OnRelocated(fn func(LocationEvent))
}
