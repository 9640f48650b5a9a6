package domain

import "time"

// HighlightColor is the closed color set for highlights. Currently a single
// value; the enum exists so new colors are additive.
type HighlightColor string

const (
	HighlightYellow HighlightColor = "yellow"
)

// Valid reports whether the color is a known member of the enum.
func (c HighlightColor) Valid() bool {
	return c == HighlightYellow
}

// HighlightsKey returns the storage key holding the highlight collection for
// a book.
func HighlightsKey(bookKey string) string {
	return "highlights-" + bookKey
}

// Highlight is a colored text-range annotation. Identity is the UUID, not the
// range, since ranges may overlap. Text is a snapshot taken at creation time
// and never re-derived from the document.
type Highlight struct {
	ID        string         `json:"id"`
	BookKey   string         `json:"book_key"`
	CfiRange  Location       `json:"cfi_range"`
	Color     HighlightColor `json:"color"`
	Text      string         `json:"text"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// HighlightService defines the use-case operations for highlights.
type HighlightService interface {
	// Add persists a new highlight. Note is an optional attached comment.
	// Add is a no-op returning (nil, nil) when bookKey is empty.
	Add(bookKey string, cfiRange Location, text, note string, color HighlightColor) (*Highlight, error)
	// Remove deletes by id. Removing an id that is not present logs and
	// returns nil: already-removed is not a failure. State is updated
	// before the visual removal event is emitted.
	Remove(bookKey, id string) error
	List(bookKey string) ([]*Highlight, error)
	// ReapplyAll re-anchors every live highlight into the given annotation
	// layer after a view rebuild. The resync is unconditional
	// remove-then-add per highlight and is safe to repeat.
	ReapplyAll(bookKey string, ann Annotations) error
}
