package importer

import "sync"

// Failure records one candidate the pipeline could not import.
type Failure struct {
	Path   string
	Reason string
}

// Result summarizes a finished import job. Totals are exact regardless of
// worker interleaving.
type Result struct {
	Imported          int
	DuplicatesSkipped int
	Failed            int
	Errors            []Failure
}

// tally accumulates result counters across workers.
type tally struct {
	mu        sync.Mutex
	imported  int
	duplicate int
	failures  []Failure
}

func (t *tally) addImported() {
	t.mu.Lock()
	t.imported++
	t.mu.Unlock()
}

func (t *tally) addDuplicate() {
	t.mu.Lock()
	t.duplicate++
	t.mu.Unlock()
}

func (t *tally) addFailure(path string, err error) {
	t.mu.Lock()
	t.failures = append(t.failures, Failure{Path: path, Reason: err.Error()})
	t.mu.Unlock()
}

func (t *tally) result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Result{
		Imported:          t.imported,
		DuplicatesSkipped: t.duplicate,
		Failed:            len(t.failures),
		Errors:            append([]Failure(nil), t.failures...),
	}
}
