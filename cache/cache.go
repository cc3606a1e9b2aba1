// Package cache is a SQLite-backed response cache for the HTTP service.
// Resolved masses are stored as their JSON records keyed by (date, type)
// with an expiry. The core client never touches this cache; it belongs to
// the serving layer.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pevans/lectio/mass"
)

// Store caches resolved masses in a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (and if needed initializes) a cache database at the given path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS masses (
		date TEXT NOT NULL,
		mass_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		PRIMARY KEY (date, mass_type)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached mass for a (date, type) pair, or (nil, nil) on a
// miss. Expired entries are evicted on read.
func (s *Store) Get(date time.Time, t mass.Type) (*mass.Mass, error) {
	key := date.Format(mass.DateLayout)

	var payload, expiresAt string
	err := s.db.QueryRow(
		"SELECT payload, expires_at FROM masses WHERE date = ? AND mass_type = ?",
		key, string(t),
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || !expiry.After(time.Now()) {
		_, _ = s.db.Exec("DELETE FROM masses WHERE date = ? AND mass_type = ?", key, string(t))
		return nil, nil
	}

	var m mass.Mass
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("failed to decode cached mass: %w", err)
	}
	return &m, nil
}

// Set stores a mass with the given time-to-live, replacing any previous
// entry for its (date, type) pair.
func (s *Store) Set(m *mass.Mass, ttl time.Duration) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mass: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO masses (date, mass_type, payload, expires_at) VALUES (?, ?, ?, ?)",
		m.Date.Format(mass.DateLayout),
		string(m.Type),
		string(payload),
		time.Now().Add(ttl).Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
