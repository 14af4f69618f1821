package catalog

import "time"

// UnknownField is the fallback value for metadata the extractor could not supply.
const UnknownField = "Unknown"

// Track is one cataloged audio file. IDs are assigned by the store and never
// reused; ContentHash is unique across the entire catalog.
type Track struct {
	ID              int64
	Title           string
	Artist          string
	Genre           string
	ContentHash     string
	SourceDirectory string
	OriginPath      string
	CreatedAt       time.Time
}

// Directory is a registered import root.
type Directory struct {
	Path    string
	AddedAt time.Time
}
