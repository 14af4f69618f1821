package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"quaver/internal/catalog"
	"quaver/internal/contentid"
	"quaver/internal/logging"
	"quaver/internal/metadata"
)

// candidate is one unit of pipeline work. materialize returns an on-disk
// path for reading; for archive entries it extracts into the job's staging
// directory on first use.
type candidate struct {
	origin      string
	source      string
	materialize func() (string, error)
}

// execute drives the shared pipeline: a producer resolves the source into
// candidates while a bounded worker pool hashes, extracts, and registers
// them. The job's event stream closes when execute returns.
func (i *Importer) execute(ctx context.Context, job *Job, produce func(context.Context, chan<- candidate, *tally) error) (Result, error) {
	defer job.finish()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	counters := &tally{}
	candidates := make(chan candidate)
	produceErr := make(chan error, 1)

	go func() {
		defer close(candidates)
		produceErr <- produce(runCtx, candidates, counters)
	}()

	var wg sync.WaitGroup
	for n := i.workers(); n > 0; n-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range candidates {
				// Cooperative cancellation: the in-flight candidate of
				// each worker finishes, the rest drain unprocessed.
				if job.Cancelled() || runCtx.Err() != nil {
					continue
				}
				i.processCandidate(runCtx, job, cand, counters)
				job.recordCompleted(cand.origin)
			}
		}()
	}
	wg.Wait()

	if err := <-produceErr; err != nil {
		return counters.result(), err
	}
	return counters.result(), nil
}

func (i *Importer) processCandidate(ctx context.Context, job *Job, cand candidate, counters *tally) {
	path, err := cand.materialize()
	if err != nil {
		counters.addFailure(cand.origin, err)
		i.logger.Warn("candidate unreadable",
			logging.String(logging.FieldJobID, job.ID()),
			logging.String(logging.FieldPath, cand.origin),
			logging.Error(err),
			logging.String(logging.FieldEventType, "candidate_failed"),
		)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		counters.addFailure(cand.origin, err)
		return
	}
	defer file.Close()

	tags, tagErr := i.extractor.Extract(file, cand.origin)
	if tagErr != nil {
		// Bad or missing tags never fail a candidate.
		tags = metadata.Tags{}
		i.logger.Debug("metadata extraction failed, using filename fallback",
			logging.String(logging.FieldPath, cand.origin),
			logging.Error(tagErr),
		)
	}
	if tags.Title == "" {
		tags.Title = metadata.DeriveTitle(cand.origin)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		counters.addFailure(cand.origin, err)
		return
	}
	hash, err := contentid.Fingerprint(file)
	if err != nil {
		counters.addFailure(cand.origin, err)
		return
	}

	track := catalog.Track{
		Title:           tags.Title,
		Artist:          tags.Artist,
		Genre:           tags.Genre,
		ContentHash:     hash,
		SourceDirectory: cand.source,
		OriginPath:      cand.origin,
	}

	id, err := i.store.Add(ctx, track)
	switch {
	case err == nil:
		counters.addImported()
		i.logger.Debug("track cataloged",
			logging.Int64(logging.FieldTrackID, id),
			logging.String(logging.FieldPath, cand.origin),
			logging.String(logging.FieldContentHash, hash),
		)
	case errors.Is(err, catalog.ErrDuplicate):
		counters.addDuplicate()
	default:
		counters.addFailure(cand.origin, err)
	}
}

func send(ctx context.Context, out chan<- candidate, cand candidate) bool {
	select {
	case out <- cand:
		return true
	case <-ctx.Done():
		return false
	}
}

func fileCandidate(path, origin, source string) candidate {
	return candidate{
		origin: origin,
		source: source,
		materialize: func() (string, error) {
			return path, nil
		},
	}
}
