package importer

import (
	"log/slog"
	"runtime"
	"time"

	"quaver/internal/archive"
	"quaver/internal/catalog"
	"quaver/internal/config"
	"quaver/internal/logging"
	"quaver/internal/metadata"
	"quaver/internal/scanner"
	"quaver/internal/staging"
)

// Importer orchestrates scan, extraction, hashing, and catalog registration
// for one source at a time. It holds no state beyond the lifetime of a Job
// and talks to the catalog only through its public operations.
type Importer struct {
	cfg       *config.Config
	store     *catalog.Store
	scanner   *scanner.Scanner
	archives  archive.Reader
	extractor metadata.Extractor
	logger    *slog.Logger
}

// Option overrides an Importer collaborator, mainly for tests.
type Option func(*Importer)

// WithArchiveReader substitutes the archive reader.
func WithArchiveReader(r archive.Reader) Option {
	return func(i *Importer) { i.archives = r }
}

// WithExtractor substitutes the metadata extractor.
func WithExtractor(e metadata.Extractor) Option {
	return func(i *Importer) { i.extractor = e }
}

// New constructs an Importer using the production collaborators: the zip
// archive reader and the tag-based metadata extractor.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...Option) *Importer {
	imp := &Importer{
		cfg:       cfg,
		store:     store,
		scanner:   scanner.New(cfg.AudioExtensionSet(), logger),
		archives:  archive.ZipReader{},
		extractor: metadata.TagExtractor{},
		logger:    logging.NewComponentLogger(logger, "importer"),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// workers returns the bounded worker count for one job.
func (i *Importer) workers() int {
	if i.cfg.Import.Workers > 0 {
		return i.cfg.Import.Workers
	}
	return 2 * runtime.NumCPU()
}

// sweepStaging reclaims workspaces left behind by interrupted imports.
func (i *Importer) sweepStaging() {
	maxAge := time.Duration(i.cfg.Import.StagingMaxAgeHours) * time.Hour
	staging.CleanStale(i.cfg.Paths.StagingDir, maxAge, i.logger)
}
