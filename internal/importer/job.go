package importer

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// eventBuffer decouples pipeline pace from the consumer; a full buffer
// drops intermediate events rather than stalling workers.
const eventBuffer = 128

// ProgressEvent reports import progress after a candidate finishes.
// Completed is monotonically non-decreasing per job; TotalEstimate may be
// revised upward while archives expand, so percentages are approximate
// until completion.
type ProgressEvent struct {
	Completed     int
	TotalEstimate int
	CurrentPath   string
}

// Job tracks one user-initiated import run: its progress stream and
// cancellation flag. Jobs are ephemeral and never persisted.
type Job struct {
	id        string
	events    chan ProgressEvent
	cancelled atomic.Bool

	mu        sync.Mutex
	completed int
	estimate  int
	finished  bool
}

// NewJob creates a job with a fresh identifier.
func NewJob() *Job {
	return &Job{
		id:     uuid.NewString(),
		events: make(chan ProgressEvent, eventBuffer),
	}
}

// ID returns the job's unique identifier.
func (j *Job) ID() string { return j.id }

// Events returns the progress stream. It closes when the import terminates,
// whether by completion, failure, or cancellation.
func (j *Job) Events() <-chan ProgressEvent { return j.events }

// Cancel requests a cooperative stop. Workers finish their in-flight
// candidate and stop consuming new ones; completed work stays cataloged.
func (j *Job) Cancel() { j.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (j *Job) Cancelled() bool { return j.cancelled.Load() }

// Completed returns the number of candidates processed so far.
func (j *Job) Completed() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.completed
}

// TotalEstimate returns the current best-effort candidate total.
func (j *Job) TotalEstimate() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.estimate
}

// addEstimate revises the candidate total upward as sources expand.
func (j *Job) addEstimate(n int) {
	if n <= 0 {
		return
	}
	j.mu.Lock()
	j.estimate += n
	j.mu.Unlock()
}

// recordCompleted bumps the completed counter and emits at most one event
// for the candidate. Dropping an event when the consumer lags is fine;
// dropping the counter increment is not.
func (j *Job) recordCompleted(path string) {
	j.mu.Lock()
	if j.finished {
		j.mu.Unlock()
		return
	}
	j.completed++
	event := ProgressEvent{
		Completed:     j.completed,
		TotalEstimate: j.estimate,
		CurrentPath:   path,
	}
	// Non-blocking send under the lock so finish cannot close the channel
	// between the finished check and the send.
	select {
	case j.events <- event:
	default:
	}
	j.mu.Unlock()
}

// finish closes the event stream. Safe to call once per job.
func (j *Job) finish() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished {
		return
	}
	j.finished = true
	close(j.events)
}
