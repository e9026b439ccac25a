package main

import (
	"context"

	"github.com/rs/xid"
	"golang.org/x/sync/semaphore"
)

// SemWaker is a reference dsptick.Waker built on
// golang.org/x/sync/semaphore: the helper-thread wake/park plumbing
// dsptick.Interpreter depends on but never implements itself.
//
// It holds a semaphore sized to maxHelpers and immediately acquires
// the whole thing at construction, so the gate starts fully closed —
// no capacity available for Park to consume. Wake(workerCount) then
// Releases workerCount-1 units, letting exactly that many blocked Park
// calls through; every one of those Acquire calls re-consumes the unit
// it was released, so the gate is back to fully closed once a tick's
// helpers have all woken. Capacity is never created or destroyed after
// construction, so the gate cannot be over-released.
type SemWaker struct {
	sem        *semaphore.Weighted
	maxHelpers int
	runID      xid.ID
}

// NewSemWaker creates a SemWaker sized for at most maxHelpers
// concurrently parked helpers, tagged with a fresh run ID for log
// correlation across a benchmark's many ticks.
func NewSemWaker(maxHelpers int) *SemWaker {
	if maxHelpers < 0 {
		maxHelpers = 0
	}
	sem := semaphore.NewWeighted(int64(maxHelpers))
	if maxHelpers > 0 {
		// Never blocks: a fresh semaphore's full capacity is available.
		_ = sem.Acquire(context.Background(), int64(maxHelpers))
	}
	return &SemWaker{sem: sem, maxHelpers: maxHelpers, runID: xid.New()}
}

// RunID returns the correlation ID for this waker's lifetime.
func (w *SemWaker) RunID() xid.ID { return w.runID }

// Wake releases workerCount-1 units of capacity, clamped to
// maxHelpers, letting that many parked Park calls through.
func (w *SemWaker) Wake(workerCount int) {
	n := workerCount - 1
	if n > w.maxHelpers {
		n = w.maxHelpers
	}
	if n > 0 {
		w.sem.Release(int64(n))
	}
}

// Park blocks until a unit of capacity is available, i.e. until the
// next Wake call for a tick this helper participates in.
func (w *SemWaker) Park(workerIndex int) {
	_ = w.sem.Acquire(context.Background(), 1)
}
