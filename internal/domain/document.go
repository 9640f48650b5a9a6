package domain

// Document describes the book the reader currently has open, as reported by
// the rendering engine once its location index has been generated. The engine
// owns the content; this core only keeps the structure needed for progress
// computation.
type Document struct {
	// BookKey is the stable identity derived from the book source. Every
	// persisted record (progress, bookmarks, highlights, notes) is scoped
	// to it.
	BookKey string `json:"book_key"`

	Title string `json:"title,omitempty"`

	// Spine is the ordered chapter list.
	Spine []SpineItem `json:"spine"`

	// TotalLocations is only known after the asynchronous location index
	// generation completes. Zero means the index is not ready yet and no
	// progress percentage can be computed.
	TotalLocations int `json:"total_locations"`
}
