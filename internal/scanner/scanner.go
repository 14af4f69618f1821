package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"quaver/internal/logging"
)

// Candidate is an audio file discovered under a scan root, pending
// metadata extraction and hashing.
type Candidate struct {
	Path string
	Size int64
}

// Skipped records a path the walk could not read. Skips never abort a scan.
type Skipped struct {
	Path string
	Err  error
}

// Scanner walks directory trees for files matching an audio extension
// allowlist. Each Scan call re-walks from scratch.
type Scanner struct {
	exts   map[string]struct{}
	logger *slog.Logger
}

// New constructs a Scanner filtering to the given dotted, lowercase
// extensions.
func New(exts map[string]struct{}, logger *slog.Logger) *Scanner {
	return &Scanner{
		exts:   exts,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Allowed reports whether path carries a recognized audio extension.
func (s *Scanner) Allowed(path string) bool {
	_, ok := s.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Walk streams the candidates found under one root. Candidates must be
// drained; Skipped is complete once the candidate channel closes.
type Walk struct {
	candidates chan Candidate

	mu      sync.Mutex
	skipped []Skipped
}

// Candidates returns the stream of discovered audio files. The channel
// closes when the walk finishes or its context is cancelled.
func (w *Walk) Candidates() <-chan Candidate {
	return w.candidates
}

// Skipped returns the paths the walk could not read.
func (w *Walk) Skipped() []Skipped {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Skipped(nil), w.skipped...)
}

func (w *Walk) addSkipped(path string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.skipped = append(w.skipped, Skipped{Path: path, Err: err})
}

// Scan starts a recursive walk under root. It fails immediately when the
// root itself is unreadable; every later read failure is recorded as a
// skip. Symbolic links are followed, with each real directory visited at
// most once so link cycles terminate.
func (s *Scanner) Scan(ctx context.Context, root string) (*Walk, error) {
	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %s: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat scan root %s: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", canonical)
	}
	// Probe readability up front so a bad root fails the job instead of
	// producing an empty, silently-skipped walk.
	if _, err := os.ReadDir(canonical); err != nil {
		return nil, fmt.Errorf("read scan root: %w", err)
	}

	walk := &Walk{candidates: make(chan Candidate)}
	go func() {
		defer close(walk.candidates)
		visited := map[string]struct{}{}
		s.walkDir(ctx, canonical, visited, walk)
	}()
	return walk, nil
}

func (s *Scanner) walkDir(ctx context.Context, dir string, visited map[string]struct{}, walk *Walk) {
	if ctx.Err() != nil {
		return
	}
	if _, seen := visited[dir]; seen {
		return
	}
	visited[dir] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		walk.addSkipped(dir, err)
		s.logger.Warn("skipping unreadable directory",
			logging.String(logging.FieldPath, dir),
			logging.Error(err),
			logging.String(logging.FieldEventType, "scan_dir_skipped"),
		)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			resolved, target, err := resolveSymlink(path)
			if err != nil {
				walk.addSkipped(path, err)
				continue
			}
			if target.IsDir() {
				s.walkDir(ctx, resolved, visited, walk)
			} else if s.Allowed(resolved) {
				s.emit(ctx, walk, Candidate{Path: resolved, Size: target.Size()})
			}
			continue
		}

		if entry.IsDir() {
			s.walkDir(ctx, path, visited, walk)
			continue
		}

		if !s.Allowed(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			walk.addSkipped(path, err)
			continue
		}
		s.emit(ctx, walk, Candidate{Path: path, Size: info.Size()})
	}
}

func (s *Scanner) emit(ctx context.Context, walk *Walk, candidate Candidate) {
	select {
	case walk.candidates <- candidate:
	case <-ctx.Done():
	}
}

func resolveSymlink(path string) (string, fs.FileInfo, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, err
	}
	return resolved, info, nil
}

// CountCandidates cheaply counts the audio files under root for progress
// estimates. The count never reads file contents and ignores unreadable
// subtrees, so consumers must treat it as approximate.
func (s *Scanner) CountCandidates(ctx context.Context, root string) (int, error) {
	walk, err := s.Scan(ctx, root)
	if err != nil {
		return 0, err
	}
	count := 0
	for range walk.Candidates() {
		count++
	}
	return count, nil
}
