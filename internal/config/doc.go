// Package config loads, normalizes, and validates Quaver configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the importer and CLI need, so catalog, staging, and log locations are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a normalized extension allowlist, and clear validation
// errors.
package config
