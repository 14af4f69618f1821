// Package scanner discovers audio file candidates under registered
// directory roots. It follows symbolic links while visiting each real
// directory at most once, filters by the configured extension allowlist
// before anything is read, and reports unreadable paths as skips rather
// than failures.
package scanner
