package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"quaver/internal/config"
)

func openBareStore(t *testing.T) *Store {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func queryForeignKeys(t *testing.T, conn *sql.Conn) int {
	t.Helper()

	var enabled int
	if err := conn.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("query foreign_keys pragma: %v", err)
	}
	return enabled
}

func TestForeignKeysEnabledOnEveryConnection(t *testing.T) {
	store := openBareStore(t)
	ctx := context.Background()

	// Holding the first connection forces the pool to hand out a second,
	// freshly opened one.
	first, err := store.db.Conn(ctx)
	if err != nil {
		t.Fatalf("first conn: %v", err)
	}
	defer first.Close()
	second, err := store.db.Conn(ctx)
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer second.Close()

	if enabled := queryForeignKeys(t, first); enabled != 1 {
		t.Fatalf("foreign_keys = %d on first connection, want 1", enabled)
	}
	if enabled := queryForeignKeys(t, second); enabled != 1 {
		t.Fatalf("foreign_keys = %d on second connection, want 1", enabled)
	}
}

func TestRemoveDirectoryCascadesOnFreshConnection(t *testing.T) {
	store := openBareStore(t)
	ctx := context.Background()

	root := t.TempDir()
	dir, err := store.AddDirectory(ctx, root)
	if err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	for i := 0; i < 3; i++ {
		track := Track{
			Title:           fmt.Sprintf("Track %d", i),
			ContentHash:     fmt.Sprintf("%064d", i),
			SourceDirectory: dir.Path,
			OriginPath:      filepath.Join(root, fmt.Sprintf("%d.mp3", i)),
		}
		if _, err := store.Add(ctx, track); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	// Pin whatever connection the pool has warm so RemoveDirectory must
	// run its transaction on a different, newly opened one.
	pinned, err := store.db.Conn(ctx)
	if err != nil {
		t.Fatalf("pin conn: %v", err)
	}
	defer pinned.Close()

	removed, err := store.RemoveDirectory(ctx, root)
	if err != nil {
		t.Fatalf("RemoveDirectory: %v", err)
	}
	if removed != 3 {
		t.Fatalf("RemoveDirectory = %d, want 3", removed)
	}

	count, err := store.CountTracks(ctx)
	if err != nil {
		t.Fatalf("CountTracks: %v", err)
	}
	if count != 0 {
		t.Fatalf("CountTracks = %d after directory removal, want 0", count)
	}
}
