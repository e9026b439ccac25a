// Package mock provides recording job fixtures and canned graphs for
// exercising dsptick.Interpreter. Jobs record invocation order and
// worker index, since that's what the executor's correctness
// properties are stated in terms of.
package mock

import (
	"sync"

	dsptick "github.com/ryanmanchester/supercollider"
)

// Invocation is one recorded call of a Recorder's job.
type Invocation struct {
	Name        string
	WorkerIndex int
}

// Recorder builds named jobs and records every invocation, safe for
// concurrent use across worker goroutines.
type Recorder struct {
	mu    sync.Mutex
	log   []Invocation
	count map[string]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{count: make(map[string]int)}
}

// Job returns a dsptick.Job that records its own invocation under name
// every time it runs.
func (r *Recorder) Job(name string) dsptick.Job {
	return func(workerIndex int) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.log = append(r.log, Invocation{Name: name, WorkerIndex: workerIndex})
		r.count[name]++
	}
}

// Log returns a snapshot of every invocation recorded so far, in the
// order jobs actually ran.
func (r *Recorder) Log() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invocation, len(r.log))
	copy(out, r.log)
	return out
}

// Count returns how many times the job registered under name ran.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count[name]
}

// Reset clears recorded invocations, e.g. between consecutive ticks in
// a re-tick idempotence test.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
	r.count = make(map[string]int)
}

// IndexOf returns the position of the first invocation of name in the
// recorded log, or -1 if it never ran.
func (r *Recorder) IndexOf(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, inv := range r.log {
		if inv.Name == name {
			return i
		}
	}
	return -1
}

// Chain builds a linear graph names[0] -> names[1] -> ... on a single
// Recorder, returning the Graph and the Recorder used to build its
// jobs. len(names) must be >= 1.
func Chain(names ...string) (*dsptick.Graph, *Recorder) {
	r := NewRecorder()
	b := dsptick.NewBuilder()

	nodes := make([]*dsptick.Node, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		var successors []*dsptick.Node
		if i+1 < len(names) {
			successors = []*dsptick.Node{nodes[i+1]}
		}
		var limit uint32
		if i > 0 {
			limit = 1
		}
		nodes[i] = b.AddNode(r.Job(names[i]), successors, limit)
	}
	b.AddInitial(nodes[0])
	return b.Build(), r
}

// Diamond builds the canonical A -> {B, C} -> D graph.
func Diamond() (*dsptick.Graph, *Recorder) {
	r := NewRecorder()
	b := dsptick.NewBuilder()

	d := b.AddNode(r.Job("D"), nil, 2)
	c := b.AddNode(r.Job("C"), []*dsptick.Node{d}, 1)
	bNode := b.AddNode(r.Job("B"), []*dsptick.Node{d}, 1)
	a := b.AddNode(r.Job("A"), []*dsptick.Node{bNode, c}, 0)
	b.AddInitial(a)
	return b.Build(), r
}

// FanOut builds A -> n leaves, each leaf independent with no further
// successors. Leaf i is named "B" followed by the base-62 digit of i
// (0-9, A-Z, a-z); leaves from index 62 on all share the name
// "B_overflow".
func FanOut(n int) (*dsptick.Graph, *Recorder) {
	r := NewRecorder()
	b := dsptick.NewBuilder()

	leaves := make([]*dsptick.Node, n)
	for i := 0; i < n; i++ {
		leaves[i] = b.AddNode(r.Job(leafName(i)), nil, 1)
	}
	a := b.AddNode(r.Job("A"), leaves, 0)
	b.AddInitial(a)
	return b.Build(), r
}

func leafName(i int) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	if i < len(alphabet) {
		return "B" + string(alphabet[i])
	}
	return "B_overflow"
}
