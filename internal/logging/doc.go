// Package logging builds the slog loggers used across Quaver and keeps
// structured field names consistent between the importer, catalog, and CLI.
//
// Console output favors human scanning (timestamp, level, component, then
// key=value pairs); JSON output is stable for ingestion. Field* constants are
// the only sanctioned keys for cross-component attributes.
package logging
