package domain

import "time"

// BookmarkKeyPrefix is the storage key prefix for bookmarks. A bookmark's
// identity is structural: the key is the prefix plus the exact location
// string, so the same location can never hold two bookmarks.
const BookmarkKeyPrefix = "book-progress-"

// BookmarkKey returns the storage key for a bookmark at the given location.
func BookmarkKey(loc Location) string {
	return BookmarkKeyPrefix + string(loc)
}

// BookmarkMetadata carries the structured fields behind the human labels so
// they can be re-synthesized when the chapter title resolves later.
type BookmarkMetadata struct {
	ChapterIndex  *int     `json:"chapter_index,omitempty"`
	ChapterTitle  string   `json:"chapter_title"`
	PageNumber    int      `json:"page_number"`
	TotalPages    int      `json:"total_pages"`
	ExactLocation Location `json:"exact_location"`
}

// Bookmark is a named save-point at an exact location.
type Bookmark struct {
	Cfi         Location         `json:"cfi"`
	BookKey     string           `json:"book_key"`
	CreatedAt   time.Time        `json:"created_at"`
	ChapterInfo string           `json:"chapter_info"`
	PageInfo    string           `json:"page_info"`
	Metadata    BookmarkMetadata `json:"metadata"`
}

// BookmarkContext is the session controller state a bookmark's labels are
// synthesized from.
type BookmarkContext struct {
	ChapterIndex *int
	ChapterTitle string
	Page         PageInfo
}

// BookmarkService defines the use-case operations for bookmarks.
type BookmarkService interface {
	// Toggle creates a bookmark at loc unless one already exists there, in
	// which case it returns ErrBookmarkExists so the caller can offer
	// removal instead. Duplicate detection is byte-exact on the location
	// string. The current func is re-read after a bounded settle delay so
	// page-rendering metadata has a chance to stabilize before the labels
	// are synthesized.
	Toggle(bookKey string, loc Location, current func() BookmarkContext) (*Bookmark, error)
	Remove(loc Location) error
	List(bookKey string) ([]*Bookmark, error)
	// PatchChapterInfo updates the labels of an existing bookmark at loc
	// once its chapter title has resolved asynchronously.
	PatchChapterInfo(bookKey string, loc Location, ctx BookmarkContext) error
}
