// Package importer drives import jobs: it resolves a source (directory,
// archive, or dropped paths) into candidates, fans them out to a bounded
// worker pool that extracts metadata and fingerprints content, and registers
// the results with the catalog. Progress streams through each Job; failures
// are tallied per candidate so one bad file never sinks the run.
package importer
