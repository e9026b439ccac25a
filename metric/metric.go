// Package metric provides expvar-backed counters scoped to a single
// Interpreter: there's exactly one executor per process worth
// measuring, not an open set of component kinds to fan a registry
// across.
package metric

import (
	"expvar"
	"fmt"
	"sync/atomic"
	"time"
)

const (
	// TickCounter counts completed ticks.
	TickCounter = "Ticks"
	// NodesRunCounter counts node executions across all ticks.
	NodesRunCounter = "NodesRun"
	// ChainCounter counts dequeues that started a hand-off chain.
	ChainCounter = "Chains"
	// SpinCounter counts master busy-wait iterations across all ticks.
	SpinCounter = "Spins"
)

// Counters tracks per-Interpreter execution counters. Every method
// uses only atomic operations, safe to call from the hot path without
// allocating. The zero value is usable but unpublished; use New to
// publish counters under expvar.
type Counters struct {
	label string

	ticks    atomic.Int64
	nodesRun atomic.Int64
	chains   atomic.Int64
	spins    atomic.Int64
	lastTick atomic.Int64 // nanoseconds
	total    atomic.Int64 // nanoseconds, cumulative across ticks
}

// New creates Counters and, if label is non-empty, publishes them
// under expvar keyed by label so they show up on a debug/vars
// endpoint. An empty label disables publishing; the counters still
// work, they're just not exported.
func New(label string) *Counters {
	c := &Counters{label: label}
	if label != "" {
		expvar.Publish(key(label, TickCounter), expvarFunc(func() interface{} { return c.ticks.Load() }))
		expvar.Publish(key(label, NodesRunCounter), expvarFunc(func() interface{} { return c.nodesRun.Load() }))
		expvar.Publish(key(label, ChainCounter), expvarFunc(func() interface{} { return c.chains.Load() }))
		expvar.Publish(key(label, SpinCounter), expvarFunc(func() interface{} { return c.spins.Load() }))
	}
	return c
}

// NodeRan records that one node finished executing.
func (c *Counters) NodeRan() { c.nodesRun.Add(1) }

// ChainStarted records that a worker dequeued a node and began a
// hand-off chain.
func (c *Counters) ChainStarted() { c.chains.Add(1) }

// Spun records one master busy-wait iteration while waiting for
// node_count to reach zero.
func (c *Counters) Spun() { c.spins.Add(1) }

// TickCompleted records the duration of one completed tick.
func (c *Counters) TickCompleted(d time.Duration) {
	c.ticks.Add(1)
	c.lastTick.Store(int64(d))
	c.total.Add(int64(d))
}

// Snapshot is a point-in-time copy of the counters, for reporting.
type Snapshot struct {
	Ticks       int64
	NodesRun    int64
	Chains      int64
	Spins       int64
	LastTick    time.Duration
	AverageTick time.Duration
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	ticks := c.ticks.Load()
	s := Snapshot{
		Ticks:    ticks,
		NodesRun: c.nodesRun.Load(),
		Chains:   c.chains.Load(),
		Spins:    c.spins.Load(),
		LastTick: time.Duration(c.lastTick.Load()),
	}
	if ticks > 0 {
		s.AverageTick = time.Duration(c.total.Load() / ticks)
	}
	return s
}

func key(label, counter string) string {
	return fmt.Sprintf("dsptick.%s.%s", label, counter)
}

// expvarFunc adapts a func() interface{} to expvar.Var.
type expvarFunc func() interface{}

func (f expvarFunc) String() string {
	v := f()
	switch n := v.(type) {
	case int64:
		return fmt.Sprintf("%d", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
