// Package contentid computes the content digests the catalog uses as its
// deduplication key. Two byte streams with equal fingerprints are treated as
// the same track.
package contentid
