package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrArchive marks a container that could not be opened at all, as opposed
// to a readable container with bad entries.
var ErrArchive = errors.New("archive unreadable")

// Entry is one member of an opened archive. Contents are read lazily.
type Entry struct {
	VirtualPath string
	Size        int64

	open func() (io.ReadCloser, error)
}

// Open returns the entry's byte stream. A corrupt entry fails here, not at
// archive open time.
func (e Entry) Open() (io.ReadCloser, error) {
	return e.open()
}

// Archive is an opened archive handle. Close releases the underlying file.
type Archive struct {
	entries []Entry
	closer  io.Closer
}

// Entries lists the archive's file members in archive order. Directory
// members are already filtered out.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Close releases the archive handle. Entries become invalid afterwards.
func (a *Archive) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Reader opens archive files for the import pipeline. An archive that
// cannot be opened is a whole-import failure; the pipeline never partially
// trusts a corrupt container.
type Reader interface {
	Open(path string) (*Archive, error)
}

// ZipReader reads zip archives.
type ZipReader struct{}

// Open opens the zip at path. Unreadable or corrupt zips fail as a unit.
func (ZipReader) Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w: %w", path, ErrArchive, err)
	}

	entries := make([]Entry, 0, len(rc.File))
	for _, file := range rc.File {
		if file.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{
			VirtualPath: file.Name,
			Size:        int64(file.UncompressedSize64),
			open:        file.Open,
		})
	}

	return &Archive{entries: entries, closer: rc}, nil
}

// IsArchivePath reports whether path names a supported archive container.
func IsArchivePath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}
