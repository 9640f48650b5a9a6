package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"epub-reader-engine/internal/domain"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const deviceIDKey = "device-id"

// deviceIdentity is the stored form of the durable device id. The id is
// regenerated once it outlives its TTL, mirroring a long-expiry cookie.
type deviceIdentity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteStore implements domain.DeviceStore over a single-table SQLite
// database. Values are whole JSON blobs and writes are last-write-wins on the
// blob; there are no partial updates.
type SQLiteStore struct {
	db     *sql.DB
	logger domain.Logger
	ttl    time.Duration

	mu sync.Mutex // guards lazy device id creation
}

// OpenStore opens (or creates) the device store at path with WAL journaling.
func OpenStore(path string, deviceIDTTL time.Duration, logger domain.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS store (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at REAL NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create store table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger, ttl: deviceIDTTL}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get unmarshals the value at key into out. Missing keys and corrupt JSON
// both report absent; corrupt values are logged, never fatal.
func (s *SQLiteStore) Get(key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM store WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query store key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("Discarding corrupt stored value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Set serializes value and writes the whole blob at key.
func (s *SQLiteStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %q: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(raw), float64(time.Now().UnixMilli())/1000.0)
	if err != nil {
		return fmt.Errorf("write store key %q: %w", key, err)
	}
	return nil
}

// Delete removes the value at key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete store key %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys with the given prefix.
func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM store WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list store keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan store key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeviceID returns the durable random device identifier, generating and
// persisting it lazily on first access.
func (s *SQLiteStore) DeviceID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ident deviceIdentity
	found, err := s.Get(deviceIDKey, &ident)
	if err != nil {
		return "", err
	}
	if found && ident.ID != "" && time.Since(ident.CreatedAt) < s.ttl {
		return ident.ID, nil
	}

	ident = deviceIdentity{ID: uuid.NewString(), CreatedAt: time.Now()}
	if err := s.Set(deviceIDKey, &ident); err != nil {
		return "", err
	}
	s.logger.Info("Generated device identifier", "device_id", ident.ID)
	return ident.ID, nil
}
