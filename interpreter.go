package dsptick

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ryanmanchester/supercollider/internal/queue"
	"github.com/ryanmanchester/supercollider/internal/state"
	"github.com/ryanmanchester/supercollider/log"
	"github.com/ryanmanchester/supercollider/metric"
)

// Interpreter holds the current Graph, the Runnable Queue, the
// remaining-node counter and the worker-count configuration. It
// exposes the tick lifecycle (InstallGraph, BeginTick, RunMaster,
// ReleaseGraph, SetThreadCount) to the master thread and the
// per-worker execution loop (RunWorker) to helpers.
//
// Graph installation and tick boundaries are NOT internally
// synchronized. Callers must guarantee:
//   - InstallGraph/ReleaseGraph happen only when no tick is in
//     progress;
//   - BeginTick, the resulting RunMaster/RunWorker calls for that
//     tick, and the next BeginTick, happen in that order with no
//     overlap.
//
// There is no global state: graph mutation during a tick is forbidden,
// callers guarantee this, and the core does not enforce it. Multiple
// independent Interpreters may coexist in one process.
type Interpreter struct {
	graph *Graph

	queue     *queue.Ring[Node]
	nodeCount atomic.Int64

	threadCount int
	usedHelpers int

	phase state.Machine

	queueCapacity int
	logger        log.Logger
	metrics       *metric.Counters

	tickStarted time.Time
	lastErr     error
}

// NewInterpreter creates an Interpreter with no graph installed
// (NoGraph phase). Default thread count is 1 (master only); default
// queue capacity is queue.DefaultCapacity.
func NewInterpreter(opts ...Option) *Interpreter {
	it := &Interpreter{
		threadCount:   1,
		queueCapacity: queue.DefaultCapacity,
		logger:        log.GetLogger(),
	}
	for _, opt := range opts {
		opt(it)
	}
	it.queue = queue.NewRing[Node](it.queueCapacity)
	return it
}

// SetThreadCount clamps n to at least 1 and stores it. Affects
// subsequent ticks only — usedHelpers is recomputed on the next
// InstallGraph, not retroactively for an already-installed graph.
func (it *Interpreter) SetThreadCount(n int) {
	if n < 1 {
		n = 1
	}
	it.threadCount = n
}

// ThreadCount returns the configured worker count, including master.
func (it *Interpreter) ThreadCount() int { return it.threadCount }

// UsedHelpers returns the effective helper count for the currently
// installed graph: min(threadCount, totalNodes) - 1, floored at 0. A
// caller's helper pool uses this to decide how many of its parked
// helpers to wake at BeginTick.
func (it *Interpreter) UsedHelpers() int { return it.usedHelpers }

// InstallGraph atomically swaps in a new graph — "atomically" in the
// sense of a single assignment under the caller's no-tick-in-progress
// guarantee, not a lock-free CAS; per the core's contract this method
// is never called concurrently with a tick. It resets the new graph's
// activation counts and recomputes usedHelpers. Returns the previous
// graph (nil if none was installed).
func (it *Interpreter) InstallGraph(g *Graph) *Graph {
	old := it.graph
	it.graph = g

	if g == nil {
		it.usedHelpers = 0
		it.phase.ToNoGraph()
		return old
	}

	g.resetActivationCounts()

	helpers := it.threadCount
	if n := g.TotalNodes(); n < helpers {
		helpers = n
	}
	helpers--
	if helpers < 0 {
		helpers = 0
	}
	it.usedHelpers = helpers

	it.phase.ToIdle()
	it.logger.Debugf("dsptick: installed graph %s (%d nodes, %d helpers)", g.id, g.TotalNodes(), it.usedHelpers)
	return old
}

// ReleaseGraph removes and returns the current graph (nil if none).
func (it *Interpreter) ReleaseGraph() *Graph {
	old := it.graph
	it.graph = nil
	it.usedHelpers = 0
	it.phase.ToNoGraph()
	if old != nil {
		it.logger.Debugf("dsptick: released graph %s", old.id)
	}
	return old
}

// BeginTick prepares the queue and counters for one tick. Returns
// false — an EmptyTick, not an error — if no graph is installed or the
// installed graph has zero nodes; the caller should skip the tick
// entirely in that case, and may call Err to tell the two apart for
// logging. Otherwise it publishes node_count with release ordering and
// seeds the queue with the graph's initial nodes. After BeginTick
// returns true, helpers may be woken to start draining the queue.
func (it *Interpreter) BeginTick() bool {
	if it.graph == nil {
		it.lastErr = ErrNoGraph
		return false
	}
	total := it.graph.TotalNodes()
	if total == 0 {
		it.lastErr = ErrEmptyGraph
		return false
	}
	it.lastErr = nil

	if got := it.nodeCount.Load(); got != 0 {
		panic(fmt.Sprintf("dsptick: BeginTick called with non-zero node_count %d; previous tick did not complete", got))
	}
	if !it.queue.Empty() {
		panic("dsptick: BeginTick called with non-empty queue; previous tick did not complete")
	}

	it.phase.ToTicking()
	it.tickStarted = time.Now()
	it.nodeCount.Store(int64(total))

	for _, n := range it.graph.initial {
		it.MarkRunnable(n)
	}

	it.logger.Debugf("dsptick: begin tick, %d nodes", total)
	return true
}

// Err returns the reason the most recent BeginTick call returned
// false: ErrNoGraph or ErrEmptyGraph. It returns nil after a BeginTick
// that returned true, and nil if BeginTick has never been called.
func (it *Interpreter) Err() error { return it.lastErr }

// MarkRunnable enqueues n onto the Runnable Queue. Callable from any
// worker, including from within a node's own successor-release walk.
func (it *Interpreter) MarkRunnable(n *Node) {
	it.queue.Enqueue(n)
}

// RunWorker executes jobs until the queue is drained and the global
// node_count has reached zero, from this worker's perspective: the
// drain for one worker terminates as soon as EITHER condition holds —
// node_count observed zero, or a dequeue attempt comes up empty. A
// worker that finds the queue empty while node_count > 0 exits anyway;
// some other worker still holds runnable nodes to discover, and the
// master's terminal spin in RunMaster tolerates this.
//
// workerIndex must be in [0, ThreadCount()).
func (it *Interpreter) RunWorker(workerIndex int) {
	if workerIndex < 0 || workerIndex >= it.threadCount {
		panic(fmt.Sprintf("dsptick: worker index %d out of range [0,%d)", workerIndex, it.threadCount))
	}

	for {
		if it.nodeCount.Load() == 0 {
			return
		}

		node, ok := it.queue.TryDequeue()
		if !ok {
			return
		}
		if it.metrics != nil {
			it.metrics.ChainStarted()
		}

		var consumed int64
		for node != nil {
			consumed++
			if it.metrics != nil {
				it.metrics.NodeRan()
			}
			node = node.run(workerIndex, it.MarkRunnable)
		}

		remaining := it.nodeCount.Add(-consumed)
		if remaining < 0 {
			panic(fmt.Sprintf("dsptick: node_count underflow: subtracted %d, went to %d", consumed, remaining))
		}
		if remaining == 0 {
			return
		}
	}
}

// RunMaster is equivalent to RunWorker(0) followed by a busy-wait spin
// on node_count until it observes zero. On return the queue is empty
// and the tick is complete. The spin is bounded by the longest
// remaining hand-off chain still in flight on another worker — the
// use case is hard-real-time audio, where that bound is sub-tick-
// length by construction, and replacing the spin with a blocking wait
// would add exactly the scheduling latency this design exists to
// avoid.
func (it *Interpreter) RunMaster() {
	it.RunWorker(0)
	for it.nodeCount.Load() != 0 {
		if it.metrics != nil {
			it.metrics.Spun()
		}
		runtime.Gosched()
	}
	it.phase.ToIdle()
	if it.metrics != nil {
		it.metrics.TickCompleted(time.Since(it.tickStarted))
	}
	it.logger.Debug("dsptick: tick complete")
}
