// Package metadata extracts title, artist, and genre from audio streams.
// The import pipeline consumes the Extractor interface; tag parsing details
// stay behind it.
package metadata
