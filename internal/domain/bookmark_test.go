package domain

import "testing"

// TestBookmarkKey tests that bookmark storage keys are derived from the exact
// location string. Two locations differing by a single character must map to
// different keys, since key identity is what makes a bookmark a duplicate.
func TestBookmarkKey(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "Regular location",
			loc:  "epubcfi(/6/4[chap01]!/4/2/1:0)",
			want: "book-progress-epubcfi(/6/4[chap01]!/4/2/1:0)",
		},
		{
			name: "Empty location",
			loc:  "",
			want: "book-progress-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BookmarkKey(tt.loc); got != tt.want {
				t.Errorf("BookmarkKey() = %v, want %v", got, tt.want)
			}
		})
	}

	a := BookmarkKey("epubcfi(/6/4[chap01]!/4/2/1:0)")
	b := BookmarkKey("epubcfi(/6/4[chap01]!/4/2/1:1)")
	if a == b {
		t.Errorf("expected distinct keys for locations differing by one character")
	}
}

func TestCollectionKeys(t *testing.T) {
	if got := HighlightsKey("book-1"); got != "highlights-book-1" {
		t.Errorf("HighlightsKey() = %v", got)
	}
	if got := NotesKey("book-1"); got != "book-notes-book-1" {
		t.Errorf("NotesKey() = %v", got)
	}
}

func TestLocation_IsZero(t *testing.T) {
	if !Location("").IsZero() {
		t.Errorf("expected the empty location to be zero")
	}
	if Location("epubcfi(/6/2!/4/1:0)").IsZero() {
		t.Errorf("expected a non-empty location not to be zero")
	}
}
