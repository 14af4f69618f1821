package catalog

import "errors"

var (
	// ErrDuplicate reports an Add whose content hash is already cataloged.
	// The importer treats it as a skip, not a fault.
	ErrDuplicate = errors.New("track content already cataloged")

	// ErrNotFound reports an operation against an unknown track ID.
	ErrNotFound = errors.New("track not found")

	// ErrDirectoryExists reports registering a directory twice.
	ErrDirectoryExists = errors.New("directory already registered")

	// ErrDirectoryNotFound reports an operation against an unregistered directory.
	ErrDirectoryNotFound = errors.New("directory not registered")
)
