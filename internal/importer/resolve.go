package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"quaver/internal/archive"
	"quaver/internal/catalog"
	"quaver/internal/logging"
	"quaver/internal/scanner"
	"quaver/internal/staging"
)

// nestedArchiveLimit bounds archive-in-archive expansion so a hostile
// container cannot recurse forever.
const nestedArchiveLimit = 3

// ImportDirectory imports every recognized audio file under root. The root
// is registered as a catalog directory if it is not already. An unreadable
// root aborts the job; unreadable files inside it are recorded as failures.
func (i *Importer) ImportDirectory(ctx context.Context, job *Job, root string) (Result, error) {
	i.sweepStaging()

	source, err := i.ensureDirectory(ctx, root)
	if err != nil {
		job.finish()
		return Result{}, err
	}

	if count, countErr := i.scanner.CountCandidates(ctx, source); countErr == nil {
		job.addEstimate(count)
	}

	walk, err := i.scanner.Scan(ctx, source)
	if err != nil {
		job.finish()
		return Result{}, err
	}

	i.logger.Info("directory import started",
		logging.String(logging.FieldJobID, job.ID()),
		logging.String(logging.FieldDirectory, source),
		logging.Int("total_estimate", job.TotalEstimate()),
	)

	return i.execute(ctx, job, func(ctx context.Context, out chan<- candidate, counters *tally) error {
		feedWalk(ctx, job, walk, source, out, counters)
		return nil
	})
}

// ImportArchive imports the audio entries of the archive at path. The
// archive's parent directory becomes the catalog directory its tracks
// belong to. An archive that cannot be opened aborts the whole job.
func (i *Importer) ImportArchive(ctx context.Context, job *Job, path string) (Result, error) {
	i.sweepStaging()

	absolute, err := filepath.Abs(path)
	if err != nil {
		job.finish()
		return Result{}, fmt.Errorf("resolve archive path: %w", err)
	}

	// Open before touching the registry so a corrupt archive fails the
	// job without registering its parent directory as a side effect.
	opened, err := i.archives.Open(absolute)
	if err != nil {
		job.finish()
		return Result{}, err
	}

	source, err := i.ensureDirectory(ctx, filepath.Dir(absolute))
	if err != nil {
		_ = opened.Close()
		job.finish()
		return Result{}, err
	}

	run, err := i.newRun(job)
	if err != nil {
		_ = opened.Close()
		job.finish()
		return Result{}, err
	}
	run.hold(opened)

	i.logger.Info("archive import started",
		logging.String(logging.FieldJobID, job.ID()),
		logging.String(logging.FieldPath, absolute),
		logging.String(logging.FieldDirectory, source),
	)

	result, runErr := i.execute(ctx, job, func(ctx context.Context, out chan<- candidate, counters *tally) error {
		i.expandArchive(ctx, job, run, opened, "", source, 0, out, counters)
		return nil
	})
	run.cleanup(i.logger, job.ID())
	return result, runErr
}

// ImportPaths imports a dropped set of paths, classifying each as a
// directory, an archive, or a plain file. Non-audio files are silently
// filtered; unreadable paths become per-candidate failures rather than
// aborting the set.
func (i *Importer) ImportPaths(ctx context.Context, job *Job, paths []string) (Result, error) {
	i.sweepStaging()

	run, err := i.newRun(job)
	if err != nil {
		job.finish()
		return Result{}, err
	}

	i.logger.Info("dropped-path import started",
		logging.String(logging.FieldJobID, job.ID()),
		logging.Int("paths", len(paths)),
	)

	result, runErr := i.execute(ctx, job, func(ctx context.Context, out chan<- candidate, counters *tally) error {
		for _, path := range paths {
			if job.Cancelled() || ctx.Err() != nil {
				return nil
			}
			i.resolveDroppedPath(ctx, job, run, path, out, counters)
		}
		return nil
	})
	run.cleanup(i.logger, job.ID())
	return result, runErr
}

// importRun owns the per-job staging directory and keeps archives open
// until the pipeline drains, since workers extract entries lazily.
type importRun struct {
	stageDir string
	seq      atomic.Int64
	closers  []io.Closer
}

func (i *Importer) newRun(job *Job) (*importRun, error) {
	stageDir, err := staging.NewJobDir(i.cfg.Paths.StagingDir, job.ID())
	if err != nil {
		return nil, err
	}
	return &importRun{stageDir: stageDir}, nil
}

// hold defers closing c until cleanup. Only the producer goroutine calls
// hold, so the slice needs no locking.
func (r *importRun) hold(c io.Closer) {
	r.closers = append(r.closers, c)
}

func (r *importRun) stagedPath(virtualPath string) string {
	return filepath.Join(r.stageDir, fmt.Sprintf("%06d-%s", r.seq.Add(1), filepath.Base(virtualPath)))
}

func (r *importRun) cleanup(logger *slog.Logger, jobID string) {
	for _, c := range r.closers {
		_ = c.Close()
	}
	if err := staging.RemoveJobDir(r.stageDir); err != nil {
		logger.Warn("staging cleanup failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
			logging.String(logging.FieldEventType, "staging_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "remove the directory manually"),
			logging.String(logging.FieldImpact, "disk space not reclaimed"),
		)
	}
}

func (i *Importer) resolveDroppedPath(ctx context.Context, job *Job, run *importRun, path string, out chan<- candidate, counters *tally) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		counters.addFailure(path, err)
		return
	}
	info, err := os.Stat(absolute)
	if err != nil {
		counters.addFailure(absolute, err)
		return
	}

	switch {
	case info.IsDir():
		source, err := i.ensureDirectory(ctx, absolute)
		if err != nil {
			counters.addFailure(absolute, err)
			return
		}
		if count, countErr := i.scanner.CountCandidates(ctx, source); countErr == nil {
			job.addEstimate(count)
		}
		walk, err := i.scanner.Scan(ctx, source)
		if err != nil {
			counters.addFailure(absolute, err)
			return
		}
		feedWalk(ctx, job, walk, source, out, counters)

	case archive.IsArchivePath(absolute):
		source, err := i.ensureDirectory(ctx, filepath.Dir(absolute))
		if err != nil {
			counters.addFailure(absolute, err)
			return
		}
		opened, err := i.archives.Open(absolute)
		if err != nil {
			counters.addFailure(absolute, err)
			return
		}
		run.hold(opened)
		i.expandArchive(ctx, job, run, opened, "", source, 0, out, counters)

	case i.scanner.Allowed(absolute):
		source, err := i.ensureDirectory(ctx, filepath.Dir(absolute))
		if err != nil {
			counters.addFailure(absolute, err)
			return
		}
		job.addEstimate(1)
		send(ctx, out, fileCandidate(absolute, absolute, source))

	default:
		// Not audio, not an archive: filtered before hashing, no counters.
	}
}

// expandArchive feeds an opened archive's audio entries into the pipeline,
// recursing into nested archives up to nestedArchiveLimit deep. The total
// estimate is revised upward as each container expands.
func (i *Importer) expandArchive(ctx context.Context, job *Job, run *importRun, opened *archive.Archive, prefix, source string, depth int, out chan<- candidate, counters *tally) {
	entries := opened.Entries()

	audio := 0
	for _, entry := range entries {
		if i.scanner.Allowed(entry.VirtualPath) {
			audio++
		}
	}
	job.addEstimate(audio)

	for _, entry := range entries {
		if job.Cancelled() || ctx.Err() != nil {
			return
		}
		origin := entry.VirtualPath
		if prefix != "" {
			origin = prefix + "!" + origin
		}

		switch {
		case i.scanner.Allowed(entry.VirtualPath):
			staged := run.stagedPath(entry.VirtualPath)
			send(ctx, out, stagedCandidate(entry, staged, origin, source))

		case archive.IsArchivePath(entry.VirtualPath):
			if depth >= nestedArchiveLimit {
				counters.addFailure(origin, errors.New("nested archive depth limit exceeded"))
				continue
			}
			staged := run.stagedPath(entry.VirtualPath)
			if err := extractEntry(entry, staged); err != nil {
				counters.addFailure(origin, err)
				continue
			}
			nested, err := i.archives.Open(staged)
			if err != nil {
				counters.addFailure(origin, err)
				continue
			}
			run.hold(nested)
			i.expandArchive(ctx, job, run, nested, origin, source, depth+1, out, counters)
		}
	}
}

func stagedCandidate(entry archive.Entry, staged, origin, source string) candidate {
	return candidate{
		origin: origin,
		source: source,
		materialize: func() (string, error) {
			if err := extractEntry(entry, staged); err != nil {
				return "", err
			}
			return staged, nil
		},
	}
}

func extractEntry(entry archive.Entry, dest string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.VirtualPath, err)
	}
	defer rc.Close()

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("stage archive entry %s: %w", entry.VirtualPath, err)
	}
	if _, err := io.Copy(file, rc); err != nil {
		_ = file.Close()
		return fmt.Errorf("extract archive entry %s: %w", entry.VirtualPath, err)
	}
	return file.Close()
}

// feedWalk pushes a directory walk's candidates into the pipeline and
// records its skipped paths once the walk drains.
func feedWalk(ctx context.Context, job *Job, walk *scanner.Walk, source string, out chan<- candidate, counters *tally) {
	for cand := range walk.Candidates() {
		// Drain rather than bail so the walker goroutine can finish.
		if job.Cancelled() || ctx.Err() != nil {
			continue
		}
		send(ctx, out, fileCandidate(cand.Path, cand.Path, source))
	}
	for _, skipped := range walk.Skipped() {
		counters.addFailure(skipped.Path, skipped.Err)
	}
}

// ensureDirectory canonicalizes path and registers it when absent, so
// every imported track lands under a registered root.
func (i *Importer) ensureDirectory(ctx context.Context, path string) (string, error) {
	canonical, err := catalog.CanonicalPath(path)
	if err != nil {
		return "", err
	}
	if _, err := i.store.AddDirectory(ctx, canonical); err != nil && !errors.Is(err, catalog.ErrDirectoryExists) {
		return "", err
	}
	return canonical, nil
}
