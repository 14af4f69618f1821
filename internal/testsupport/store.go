package testsupport

import (
	"context"
	"testing"

	"quaver/internal/catalog"
	"quaver/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustAddDirectory registers an import root for tests.
func MustAddDirectory(t testing.TB, store *catalog.Store, path string) *catalog.Directory {
	t.Helper()

	dir, err := store.AddDirectory(context.Background(), path)
	if err != nil {
		t.Fatalf("store.AddDirectory(%s): %v", path, err)
	}
	return dir
}
