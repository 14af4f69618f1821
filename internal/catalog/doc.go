// Package catalog persists tracks and registered directories in SQLite.
//
// The Store is the sole writer for both tables. Track content hashes are
// unique catalog-wide, enforced twice: a mutex serializes the find/insert
// pair inside one process, and a UNIQUE index backs it in the engine.
// Removing a directory cascades into its tracks, keeping every track's
// source directory pointing at a registered root.
package catalog
