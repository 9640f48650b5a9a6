package domain

import "time"

// ReadingProgress is the durable "where was I" record for one book on one
// device. Exactly one current record exists per (book, device); across
// devices the most recently saved one wins.
type ReadingProgress struct {
	BookKey       string    `json:"book_key"`
	Location      Location  `json:"location"`
	Percent       int       `json:"percent"`
	ChapterIndex  int       `json:"chapter_index"`
	PageInChapter int       `json:"page_in_chapter"`
	ChapterPages  int       `json:"chapter_pages"`
	SavedAt       time.Time `json:"saved_at"`
	DeviceID      string    `json:"device_id"`
}

// PageInfo is the derived page position published by the session controller.
// It is recomputed on every location change and never persisted on its own.
// Ready is false until the engine's location index has been generated; until
// then the percentage is meaningless and callers must show an indeterminate
// state instead of a stale or zero value.
type PageInfo struct {
	Current        int  `json:"current"`
	Total          int  `json:"total"`
	ChapterCurrent int  `json:"chapter_current"`
	ChapterTotal   int  `json:"chapter_total"`
	Ready          bool `json:"ready"`
}

// ProgressSyncRepository pushes reading progress to a remote store and reads
// the most recent record across devices. Sync is best effort: failures are
// logged and never block reading. Cross-device conflicts are last-write-wins.
type ProgressSyncRepository interface {
	Upsert(progress *ReadingProgress) error
	Latest(bookKey string) (*ReadingProgress, error)
}
