package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"quaver/internal/config"
)

// Store manages catalog persistence backed by SQLite. It is the single
// writer for track and directory records; every mutation funnels through
// its internal serialization.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock

	// mu guards the find/insert pair in Add so concurrent adds with the
	// same content hash resolve to exactly one stored track.
	mu sync.Mutex
}

// Open initializes or connects to the catalog database, acquires the
// process lock, and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("catalog at %s is locked by another process", dbPath)
	}

	// Pragmas ride on the DSN so every pooled connection gets them.
	// A plain db.Exec would reach only one connection, leaving
	// foreign_keys off elsewhere and the delete cascade dead.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection and releases the process lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the catalog database location.
func (s *Store) Path() string {
	return s.path
}

func scanTrack(row interface{ Scan(...any) error }) (*Track, error) {
	var track Track
	var createdAt string
	if err := row.Scan(
		&track.ID,
		&track.Title,
		&track.Artist,
		&track.Genre,
		&track.ContentHash,
		&track.SourceDirectory,
		&track.OriginPath,
		&createdAt,
	); err != nil {
		return nil, err
	}
	parsed, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	track.CreatedAt = parsed
	return &track, nil
}

const trackColumns = "id, title, artist, genre, content_hash, source_directory, origin_path, created_at"

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
