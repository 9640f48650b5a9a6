package domain

// EventType identifies a cross-component notification.
type EventType string

const (
	// EventStorageChanged is broadcast after any bookmark, highlight, note
	// or reading-list write so other open views can refresh.
	EventStorageChanged EventType = "storage-changed"
	// EventChapterTitleResolved is published when the chapter title for
	// the current view becomes known, possibly after bookmarks at that
	// location were already created.
	EventChapterTitleResolved EventType = "chapter-title-resolved"
	// EventHighlightAdded asks the live view, if any, to anchor a newly
	// persisted highlight.
	EventHighlightAdded EventType = "highlight-added"
	// EventHighlightRemoved asks the live view to strip an overlay. It is
	// emitted after the collection was updated: state is authoritative
	// even if the visual removal fails.
	EventHighlightRemoved EventType = "highlight-removed"
)

// Event is the payload delivered to subscribers. Fields beyond Type and
// BookKey are set per event type.
type Event struct {
	Type        EventType
	BookKey     string
	Location    Location
	Title       string
	HighlightID string
	Color       HighlightColor
}

// EventBus is the explicit observer interface connecting the managers. It
// replaces broadcast-and-forget global events: every dependency between
// components is a declared subscription. Dispatch is synchronous and in
// publish order. Subscribe returns an unsubscribe function.
type EventBus interface {
	Subscribe(t EventType, fn func(Event)) (unsubscribe func())
	Publish(e Event)
}
