package dsptick

import (
	"github.com/ryanmanchester/supercollider/log"
	"github.com/ryanmanchester/supercollider/metric"
)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithThreadCount sets the initial worker count (including master).
// Equivalent to calling SetThreadCount right after NewInterpreter.
func WithThreadCount(n int) Option {
	return func(it *Interpreter) { it.SetThreadCount(n) }
}

// WithQueueCapacity overrides the Runnable Queue's ring capacity
// (rounded up to a power of two). Only takes effect at construction.
func WithQueueCapacity(capacity int) Option {
	return func(it *Interpreter) { it.queueCapacity = capacity }
}

// WithLogger overrides the default logger. Pass a no-op implementation
// to silence tick-boundary tracing entirely.
func WithLogger(l log.Logger) Option {
	return func(it *Interpreter) { it.logger = l }
}

// WithMetrics attaches a Counters instance so the Interpreter records
// tick/node/chain/spin counts on every tick. Metrics are off (nil) by
// default: the extra atomic increments are cheap but not free, and a
// no-allocation steady state shouldn't come with an unconditional
// observability tax.
func WithMetrics(m *metric.Counters) Option {
	return func(it *Interpreter) { it.metrics = m }
}
