package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"quaver/internal/catalog"
	"quaver/internal/contentid"
	"quaver/internal/testsupport"
)

func hashOf(t *testing.T, content string) string {
	t.Helper()
	hash, err := contentid.Fingerprint(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return hash
}

func newTrack(t *testing.T, dir, origin, content string) catalog.Track {
	t.Helper()
	return catalog.Track{
		Title:           filepath.Base(origin),
		Artist:          "Artist",
		Genre:           "Genre",
		ContentHash:     hashOf(t, content),
		SourceDirectory: dir,
		OriginPath:      origin,
	}
}

func TestAddAndLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	root := t.TempDir()
	dir := testsupport.MustAddDirectory(t, store, root)

	ctx := context.Background()
	track := newTrack(t, dir.Path, filepath.Join(root, "a.mp3"), "content-a")
	track.Artist = ""
	track.Genre = "  "

	id, err := store.Add(ctx, track)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	found, err := store.FindByHash(ctx, track.ContentHash)
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if found == nil || found.ID != id {
		t.Fatalf("FindByHash = %+v, want id %d", found, id)
	}
	if found.Artist != catalog.UnknownField || found.Genre != catalog.UnknownField {
		t.Fatalf("blank metadata not defaulted: %+v", found)
	}

	byID, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.ContentHash != track.ContentHash {
		t.Fatalf("GetByID = %+v", byID)
	}
}

func TestAddDuplicateHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := testsupport.MustAddDirectory(t, store, t.TempDir())

	ctx := context.Background()
	track := newTrack(t, dir.Path, "a.mp3", "same-bytes")
	if _, err := store.Add(ctx, track); err != nil {
		t.Fatalf("first Add: %v", err)
	}

	dup := newTrack(t, dir.Path, "b.mp3", "same-bytes")
	if _, err := store.Add(ctx, dup); !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("second Add err = %v, want ErrDuplicate", err)
	}

	count, err := store.CountTracks(ctx)
	if err != nil {
		t.Fatalf("CountTracks: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestAddRequiresRegisteredDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	track := newTrack(t, "/not/registered", "a.mp3", "orphan")
	if _, err := store.Add(context.Background(), track); !errors.Is(err, catalog.ErrDirectoryNotFound) {
		t.Fatalf("Add err = %v, want ErrDirectoryNotFound", err)
	}
}

func TestAddRejectsMalformedHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := testsupport.MustAddDirectory(t, store, t.TempDir())

	track := catalog.Track{ContentHash: "nope", SourceDirectory: dir.Path, OriginPath: "x"}
	if _, err := store.Add(context.Background(), track); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestConcurrentAddSameHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := testsupport.MustAddDirectory(t, store, t.TempDir())

	const workers = 16
	hash := hashOf(t, "contested")

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			track := catalog.Track{
				Title:           fmt.Sprintf("worker-%d", n),
				ContentHash:     hash,
				SourceDirectory: dir.Path,
				OriginPath:      fmt.Sprintf("w%d.mp3", n),
			}
			_, err := store.Add(context.Background(), track)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var stored, duplicates int
	for err := range results {
		switch {
		case err == nil:
			stored++
		case errors.Is(err, catalog.ErrDuplicate):
			duplicates++
		default:
			t.Fatalf("unexpected Add error: %v", err)
		}
	}
	if stored != 1 || duplicates != workers-1 {
		t.Fatalf("stored=%d duplicates=%d, want 1/%d", stored, duplicates, workers-1)
	}
}

func TestRemoveUnknownTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Remove(context.Background(), 9999); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Remove err = %v, want ErrNotFound", err)
	}
}

func TestListByDirectoryInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := testsupport.MustAddDirectory(t, store, t.TempDir())

	ctx := context.Background()
	origins := []string{"c.mp3", "a.mp3", "b.mp3"}
	for _, origin := range origins {
		if _, err := store.Add(ctx, newTrack(t, dir.Path, origin, "bytes-"+origin)); err != nil {
			t.Fatalf("Add %s: %v", origin, err)
		}
	}

	tracks, err := store.ListByDirectory(ctx, dir.Path)
	if err != nil {
		t.Fatalf("ListByDirectory: %v", err)
	}
	if len(tracks) != len(origins) {
		t.Fatalf("len = %d, want %d", len(tracks), len(origins))
	}
	for i, origin := range origins {
		if tracks[i].OriginPath != origin {
			t.Fatalf("tracks[%d].OriginPath = %s, want %s", i, tracks[i].OriginPath, origin)
		}
	}
}

func TestRemoveDirectoryCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	keep := testsupport.MustAddDirectory(t, store, t.TempDir())
	drop := testsupport.MustAddDirectory(t, store, t.TempDir())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		origin := fmt.Sprintf("drop-%d.mp3", i)
		if _, err := store.Add(ctx, newTrack(t, drop.Path, origin, origin)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := store.Add(ctx, newTrack(t, keep.Path, "keep.mp3", "keep")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	removed, err := store.RemoveDirectory(ctx, drop.Path)
	if err != nil {
		t.Fatalf("RemoveDirectory: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}

	kept, err := store.ListByDirectory(ctx, keep.Path)
	if err != nil {
		t.Fatalf("ListByDirectory: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept = %d tracks, want 1", len(kept))
	}
	count, err := store.CountTracks(ctx)
	if err != nil {
		t.Fatalf("CountTracks: %v", err)
	}
	if count != 1 {
		t.Fatalf("total = %d, want 1", count)
	}
}

func TestAddDirectoryValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	root := t.TempDir()
	if _, err := store.AddDirectory(ctx, root); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if _, err := store.AddDirectory(ctx, root); !errors.Is(err, catalog.ErrDirectoryExists) {
		t.Fatalf("second AddDirectory err = %v, want ErrDirectoryExists", err)
	}

	filePath := filepath.Join(root, "file.txt")
	testsupport.WriteFile(t, filePath, []byte("x"))
	if _, err := store.AddDirectory(ctx, filePath); err == nil {
		t.Fatal("expected error registering a file as a directory")
	}

	if _, err := store.AddDirectory(ctx, filepath.Join(root, "missing")); err == nil {
		t.Fatal("expected error registering a missing path")
	}

	if _, err := store.RemoveDirectory(ctx, t.TempDir()); !errors.Is(err, catalog.ErrDirectoryNotFound) {
		t.Fatal("expected ErrDirectoryNotFound removing unknown directory")
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	root := t.TempDir()
	dir, err := store.AddDirectory(ctx, root)
	if err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	id, err := store.Add(ctx, newTrack(t, dir.Path, "persist.mp3", "persisted"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	track, err := reopened.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID after reopen: %v", err)
	}
	if track == nil || track.OriginPath != "persist.mp3" {
		t.Fatalf("track after reopen = %+v", track)
	}
	dirs, err := reopened.ListDirectories(ctx)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Path != dir.Path {
		t.Fatalf("dirs after reopen = %+v", dirs)
	}
}
