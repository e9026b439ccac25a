// Package queue implements the Runnable Queue collaborator described
// in the tick executor's design: a multi-producer/multi-consumer,
// non-blocking FIFO of node references.
//
// Ring is a bounded array-based MPMC queue (the algorithm commonly
// attributed to Dmitry Vyukov): producers and consumers race on two
// monotonically increasing positions, and each slot carries its own
// sequence number so a producer and consumer can never observe each
// other's half-written slot. Enqueue and Dequeue are wait-free as long
// as the ring isn't full or empty, which for the graphs this package
// targets (node counts in the hundreds, not millions) is true almost
// always with the default capacity.
//
// When the ring does fill up — more nodes become runnable at once than
// the ring can hold — Enqueue falls back to a lock-free, allocating
// Treiber stack. That overflow path is the only place in this package
// that touches the heap; ordinary ticks never reach it.
package queue

import (
	"sync/atomic"
)

// DefaultCapacity is the ring size used when a caller doesn't pick
// one.
const DefaultCapacity = 1024

type cell[T any] struct {
	sequence atomic.Uint64
	value    atomic.Pointer[T]
}

// Ring is a bounded MPMC FIFO of *T, with an unbounded lock-free
// overflow for the rare case where more items are runnable at once
// than the ring holds. The zero value is not usable; use NewRing.
type Ring[T any] struct {
	mask  uint64
	cells []cell[T]

	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64

	overflow treiberStack[T]
	size     atomic.Int64 // ring + overflow, for Empty()
}

// NewRing creates a Ring with the given capacity, rounded up to the
// next power of two (required by the index-masking trick below).
// Capacity <= 0 uses DefaultCapacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = nextPowerOfTwo(capacity)

	r := &Ring[T]{
		mask:  uint64(capacity - 1),
		cells: make([]cell[T], capacity),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Enqueue adds v to the queue. It never blocks and never returns an
// error: a ring slot is claimed with a CAS loop, and if the ring is
// momentarily full the item is pushed onto the overflow stack instead.
func (r *Ring[T]) Enqueue(v *T) {
	if r.tryEnqueueRing(v) {
		r.size.Add(1)
		return
	}
	r.overflow.push(v)
	r.size.Add(1)
}

func (r *Ring[T]) tryEnqueueRing(v *T) bool {
	pos := r.enqueuePos.Load()
	for {
		c := &r.cells[pos&r.mask]
		seq := c.sequence.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if r.enqueuePos.CompareAndSwap(pos, pos+1) {
				c.value.Store(v)
				c.sequence.Store(pos + 1)
				return true
			}
			pos = r.enqueuePos.Load()
		case diff < 0:
			// ring is full
			return false
		default:
			pos = r.enqueuePos.Load()
		}
	}
}

// TryDequeue removes and returns the oldest item in the ring; once the
// ring runs dry it pops the overflow stack, newest overflow item first.
// Returns false if the queue is empty.
func (r *Ring[T]) TryDequeue() (*T, bool) {
	if v, ok := r.tryDequeueRing(); ok {
		r.size.Add(-1)
		return v, true
	}
	if v, ok := r.overflow.pop(); ok {
		r.size.Add(-1)
		return v, true
	}
	return nil, false
}

func (r *Ring[T]) tryDequeueRing() (*T, bool) {
	pos := r.dequeuePos.Load()
	for {
		c := &r.cells[pos&r.mask]
		seq := c.sequence.Load()
		diff := int64(seq) - int64(pos+1)
		switch {
		case diff == 0:
			if r.dequeuePos.CompareAndSwap(pos, pos+1) {
				v := c.value.Load()
				c.value.Store(nil)
				c.sequence.Store(pos + uint64(len(r.cells)))
				return v, true
			}
			pos = r.dequeuePos.Load()
		case diff < 0:
			// ring is empty
			return nil, false
		default:
			pos = r.dequeuePos.Load()
		}
	}
}

// Empty reports whether the queue currently holds no items. It is
// advisory only: under concurrent Enqueue/Dequeue the answer can be
// stale the instant it's returned. The tick executor only relies on it
// at tick boundaries, when the caller has already guaranteed no
// concurrent access.
func (r *Ring[T]) Empty() bool {
	return r.size.Load() <= 0
}

// treiberStack is a lock-free LIFO used as the Ring's overflow path.
// Ordering across producers is not guaranteed by the core's contract,
// so LIFO is fine here; it also plays nicely with cache locality for
// the burst of nodes that overflow together.
type treiberStack[T any] struct {
	head atomic.Pointer[link[T]]
}

type link[T any] struct {
	value *T
	next  *link[T]
}

func (s *treiberStack[T]) push(v *T) {
	n := &link[T]{value: v}
	for {
		old := s.head.Load()
		n.next = old
		if s.head.CompareAndSwap(old, n) {
			return
		}
	}
}

func (s *treiberStack[T]) pop() (*T, bool) {
	for {
		old := s.head.Load()
		if old == nil {
			return nil, false
		}
		if s.head.CompareAndSwap(old, old.next) {
			return old.value, true
		}
	}
}
