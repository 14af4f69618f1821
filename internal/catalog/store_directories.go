package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AddDirectory registers an import root. The path must exist and be a
// directory; it is stored in canonical absolute form. Registering the same
// path twice fails with ErrDirectoryExists.
func (s *Store) AddDirectory(ctx context.Context, path string) (*Directory, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", canonical)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	addedAt := time.Now()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO directories (path, added_at) VALUES (?, ?)`,
		canonical,
		formatTimestamp(addedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", canonical, ErrDirectoryExists)
		}
		return nil, fmt.Errorf("insert directory: %w", err)
	}

	return &Directory{Path: canonical, AddedAt: addedAt.UTC()}, nil
}

// RemoveDirectory unregisters an import root and cascades into its tracks.
// It returns the number of tracks removed with it.
func (s *Store) RemoveDirectory(ctx context.Context, path string) (int, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var trackCount int
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM tracks WHERE source_directory = ?`,
		canonical,
	).Scan(&trackCount); err != nil {
		return 0, fmt.Errorf("count directory tracks: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM directories WHERE path = ?`, canonical)
	if err != nil {
		return 0, fmt.Errorf("delete directory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("%s: %w", canonical, ErrDirectoryNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit directory removal: %w", err)
	}
	return trackCount, nil
}

// ListDirectories returns registered import roots in addition order.
func (s *Store) ListDirectories(ctx context.Context) ([]Directory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, added_at FROM directories ORDER BY added_at, path`)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	defer rows.Close()

	var dirs []Directory
	for rows.Next() {
		var dir Directory
		var addedAt string
		if err := rows.Scan(&dir.Path, &addedAt); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		parsed, err := parseTimestamp(addedAt)
		if err != nil {
			return nil, fmt.Errorf("parse added_at: %w", err)
		}
		dir.AddedAt = parsed
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directories: %w", err)
	}
	return dirs, nil
}

// HasDirectory reports whether the canonical form of path is registered.
func (s *Store) HasDirectory(ctx context.Context, path string) (bool, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return false, err
	}
	var count int
	if err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM directories WHERE path = ?`,
		canonical,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("check directory: %w", err)
	}
	return count > 0, nil
}

// CanonicalPath resolves path to the absolute, symlink-free form used as the
// registry key. The path itself must exist; its parents may be symlinks.
func CanonicalPath(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks for %s: %w", absolute, err)
	}
	return resolved, nil
}
