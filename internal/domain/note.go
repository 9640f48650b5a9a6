package domain

import "time"

// NotesKey returns the storage key holding the note collection for a book.
func NotesKey(bookKey string) string {
	return "book-notes-" + bookKey
}

// Note is a free-text annotation attached to a text range. Its lifecycle is
// independent from highlights: a note can exist without a visual highlight
// and is never re-anchored into the view.
type Note struct {
	ID        string    `json:"id"`
	BookKey   string    `json:"book_key"`
	CfiRange  Location  `json:"cfi_range"`
	Text      string    `json:"text"`
	NoteText  string    `json:"note_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteService defines the use-case operations for notes. Every operation is a
// no-op when bookKey is empty.
type NoteService interface {
	Add(bookKey string, cfiRange Location, text, noteText string) (*Note, error)
	Update(bookKey, id, noteText string) (*Note, error)
	Remove(bookKey, id string) error
	List(bookKey string) ([]*Note, error)
}
