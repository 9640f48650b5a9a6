package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"epub-reader-engine/internal/domain"
)

// SupabaseProgressRepository implements domain.ProgressSyncRepository over a
// reading_positions table. Rows are keyed (book_key, device_id) and whole-row
// upserted; conflict resolution across devices is last-write-wins, so Latest
// simply picks the most recent saved_at.
type SupabaseProgressRepository struct {
	supabaseClient *SupabaseClient
	logger         domain.Logger
}

// readingPositionRow is the wire shape of a reading_positions row.
type readingPositionRow struct {
	BookKey       string    `json:"book_key"`
	Location      string    `json:"location"`
	Percent       int       `json:"percent"`
	ChapterIndex  int       `json:"chapter_index"`
	PageInChapter int       `json:"page_in_chapter"`
	ChapterPages  int       `json:"chapter_pages"`
	SavedAt       time.Time `json:"saved_at"`
	DeviceID      string    `json:"device_id"`
}

// NewSupabaseProgressRepository creates a new Supabase progress repository
func NewSupabaseProgressRepository(supabaseClient *SupabaseClient, logger domain.Logger) domain.ProgressSyncRepository {
	return &SupabaseProgressRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Upsert writes the device's current progress row for the book.
func (r *SupabaseProgressRepository) Upsert(progress *domain.ReadingProgress) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"book_key":        progress.BookKey,
		"location":        string(progress.Location),
		"percent":         progress.Percent,
		"chapter_index":   progress.ChapterIndex,
		"page_in_chapter": progress.PageInChapter,
		"chapter_pages":   progress.ChapterPages,
		"saved_at":        progress.SavedAt,
		"device_id":       progress.DeviceID,
	}

	_, _, err := client.From("reading_positions").
		Upsert(row, "book_key,device_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert reading position: %w", err)
	}

	r.logger.Debug("Reading position synced", "book_key", progress.BookKey, "device_id", progress.DeviceID)
	return nil
}

// Latest returns the most recently saved progress for the book across all
// devices, or ErrProgressNotFound when no device has reported.
func (r *SupabaseProgressRepository) Latest(bookKey string) (*domain.ReadingProgress, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("reading_positions").
		Select("*", "", false).
		Eq("book_key", bookKey).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get reading positions: %w", err)
	}

	var rows []readingPositionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProgressNotFound
	}

	latest := rows[0]
	for _, row := range rows[1:] {
		if row.SavedAt.After(latest.SavedAt) {
			latest = row
		}
	}

	return &domain.ReadingProgress{
		BookKey:       latest.BookKey,
		Location:      domain.Location(latest.Location),
		Percent:       latest.Percent,
		ChapterIndex:  latest.ChapterIndex,
		PageInChapter: latest.PageInChapter,
		ChapterPages:  latest.ChapterPages,
		SavedAt:       latest.SavedAt,
		DeviceID:      latest.DeviceID,
	}, nil
}
