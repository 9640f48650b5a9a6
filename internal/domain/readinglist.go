package domain

import "time"

// ReadingListsKey is the storage key holding all reading lists on a device.
const ReadingListsKey = "reading-lists"

// ReadingList is a named shelf of book keys kept in the device store.
type ReadingList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Books     []string  `json:"books"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadingListService defines the use-case operations for reading lists.
type ReadingListService interface {
	Create(name string, books []string) (*ReadingList, error)
	List() ([]*ReadingList, error)
}
