package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quaver/internal/contentid"
)

// Add catalogs a new track and returns its assigned ID. It fails with
// ErrDuplicate when the content hash is already present and with
// ErrDirectoryNotFound when the track's source directory is not registered.
// Concurrent adds with the same hash resolve to exactly one stored track.
func (s *Store) Add(ctx context.Context, track Track) (int64, error) {
	if !contentid.Valid(track.ContentHash) {
		return 0, fmt.Errorf("content hash %q is malformed", track.ContentHash)
	}
	track.Title = fallbackField(track.Title)
	track.Artist = fallbackField(track.Artist)
	track.Genre = fallbackField(track.Genre)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findByHashLocked(ctx, track.ContentHash)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("hash %s held by track %d: %w", track.ContentHash, existing.ID, ErrDuplicate)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracks (title, artist, genre, content_hash, source_directory, origin_path, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		track.Title,
		track.Artist,
		track.Genre,
		track.ContentHash,
		track.SourceDirectory,
		track.OriginPath,
		formatTimestamp(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("source directory %s: %w", track.SourceDirectory, ErrDirectoryNotFound)
		}
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("hash %s: %w", track.ContentHash, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert track: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FindByHash returns the track holding the given content hash, or nil.
func (s *Store) FindByHash(ctx context.Context, hash string) (*Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByHashLocked(ctx, hash)
}

func (s *Store) findByHashLocked(ctx context.Context, hash string) (*Track, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE content_hash = ?`, hash)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	return track, nil
}

// GetByID fetches a track by identifier, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Track, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	return track, nil
}

// ListTracks returns every cataloged track in insertion order.
func (s *Store) ListTracks(ctx context.Context) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+trackColumns+` FROM tracks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()
	return collectTracks(rows)
}

// ListByDirectory returns the tracks sourced from dir in insertion order.
func (s *Store) ListByDirectory(ctx context.Context, dir string) ([]Track, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE source_directory = ? ORDER BY id`,
		dir,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()
	return collectTracks(rows)
}

func collectTracks(rows *sql.Rows) ([]Track, error) {
	var tracks []Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// Remove deletes a track by ID. Unknown IDs fail with ErrNotFound.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("track %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountTracks returns the total number of cataloged tracks.
func (s *Store) CountTracks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tracks: %w", err)
	}
	return count, nil
}

func fallbackField(value string) string {
	if strings.TrimSpace(value) == "" {
		return UnknownField
	}
	return value
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
