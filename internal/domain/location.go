package domain

// Location is an opaque range identifier ("CFI") produced by the rendering
// engine. It addresses a point or a span inside a reflowable document and is
// only comparable through engine operations, never lexicographically. A
// location stays valid for the lifetime of the exact document content.
type Location string

// IsZero reports whether the location is empty. An empty location means
// "start of document" when passed to Rendition.Display.
func (l Location) IsZero() bool {
	return l == ""
}

// SpineItem is one chapter/section in the document's reading order. Title is
// resolved from the rendered chapter content and may be empty until the
// chapter has been displayed at least once.
type SpineItem struct {
	Index int    `json:"index"`
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// DisplayedPage is the engine-reported page position within the current
// chapter. Zero Total means the engine did not report page data for this
// event and the previous page info must be kept.
type DisplayedPage struct {
	Page  int `json:"page"`
	Total int `json:"total"`
}

// LocationPoint is the start (or end) of a reported location.
type LocationPoint struct {
	Cfi        Location       `json:"cfi"`
	Percentage float64        `json:"percentage"`
	Displayed  *DisplayedPage `json:"displayed,omitempty"`
}

// LocationEvent is delivered by the rendering engine whenever the visible
// content changes. Reflow marks events caused by a view rebuild (font size,
// resize) rather than navigation; those require annotation re-anchoring.
type LocationEvent struct {
	Start  LocationPoint `json:"start"`
	Reflow bool          `json:"reflow"`
}
