// Package watcher monitors registered directories for filesystem changes
// and triggers a debounced re-import of the root that changed. New
// subdirectories are picked up as they appear.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"quaver/internal/logging"
)

// Trigger is invoked after events under a root settle for the debounce
// window. It runs on a timer goroutine and must not block indefinitely.
type Trigger func(root string)

// Watcher tails filesystem events below a fixed set of roots. One debounce
// timer runs per root so a busy directory cannot starve the others.
type Watcher struct {
	roots    []string
	debounce time.Duration
	trigger  Trigger
	allowed  func(path string) bool
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New constructs a Watcher over the given roots. allowed filters which
// file events count as catalog-relevant.
func New(roots []string, debounce time.Duration, allowed func(string) bool, trigger Trigger, logger *slog.Logger) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}

	w := &Watcher{
		roots:    append([]string(nil), roots...),
		debounce: debounce,
		trigger:  trigger,
		allowed:  allowed,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		fsw:      fsw,
		timers:   map[string]*time.Timer{},
	}

	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	return w, nil
}

// Run processes filesystem events until ctx is cancelled. It always
// returns ctx.Err() or a watcher transport failure.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	w.logger.Info("watching directories",
		logging.Int("roots", len(w.roots)),
		logging.Duration("debounce", w.debounce),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event stream closed")
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error stream closed")
			}
			w.logger.Warn("filesystem watch error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "watch_error"),
			)
		}
	}
}

func (w *Watcher) close() {
	_ = w.fsw.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	for root, timer := range w.timers {
		timer.Stop()
		delete(w.timers, root)
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, same as a scan would.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if watchErr := w.fsw.Add(path); watchErr != nil {
			w.logger.Warn("cannot watch directory",
				logging.String(logging.FieldPath, path),
				logging.Error(watchErr),
				logging.String(logging.FieldEventType, "watch_add_failed"),
			)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if w.allowed != nil && !w.allowed(event.Name) {
		return
	}

	root, ok := w.owningRoot(event.Name)
	if !ok {
		return
	}
	w.schedule(root)
}

// owningRoot maps an event path back to the watched root it lives under.
func (w *Watcher) owningRoot(path string) (string, bool) {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

// schedule arms or extends the root's debounce timer. The trigger fires
// once per quiet period no matter how many events arrived.
func (w *Watcher) schedule(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[root]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.timers[root] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, root)
		w.mu.Unlock()

		w.logger.Info("change settled, re-importing",
			logging.String(logging.FieldDirectory, root),
			logging.String(logging.FieldEventType, "watch_triggered"),
		)
		if w.trigger != nil {
			w.trigger(root)
		}
	})
}
