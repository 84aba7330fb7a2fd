// Package store owns all FixFirst state: the report collection, the
// notification log, saved views and user accounts. All writes flow through
// it; every mutation persists a full snapshot into a local key-value blob
// store before returning.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"fixfirst/internal/logging"
)

// Blob-store keys. Each key holds one JSON document covering the full
// collection it names; writes are whole-snapshot replacements.
const (
	KeyReports       = "fixfirst-reports"
	KeySavedViews    = "fixfirst-saved-views"
	KeyNotifications = "fixfirst-notifications"
	KeySessionUser   = "fixfirst-user"
	KeyUsers         = "fixfirst-users"
)

// BlobStore is a key -> JSON-string store backed by a single SQLite table.
type BlobStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// NewBlobStore opens (or creates) the SQLite database at the given path.
// Use ":memory:" for tests.
func NewBlobStore(path string) (*BlobStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewBlobStore")
	defer timer.Stop()

	logging.Store("Opening blob store at %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &BlobStore{db: db, path: path}, nil
}

// Get returns the JSON document stored under key. ok is false when the key
// has never been written.
func (b *BlobStore) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("blob get %q: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the document stored under key.
func (b *BlobStore) Put(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("blob put %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (b *BlobStore) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("blob delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (b *BlobStore) Close() error {
	logging.Store("Closing blob store")
	return b.db.Close()
}
