package dsptick

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/xid"
)

// Node is a single unit of DSP work wired into a Graph: a job plus its
// successor wiring and a per-tick activation counter.
//
// Nodes are owned exclusively by the Graph that holds them; successors
// are non-owning back-pointers into the same Graph — a node may appear
// as a successor of many predecessors, so successor lists never own
// the nodes they point at.
//
// Invariant: at a tick boundary (before seeding and after the tick
// completes) every node's activationCount equals its activationLimit.
// During a tick, 0 <= activationCount <= activationLimit. A node runs
// exactly once per tick.
type Node struct {
	id  xid.ID
	job Job

	successors []*Node

	activationLimit uint32
	activationCount atomic.Uint32
}

func newNode(job Job) *Node {
	return &Node{id: xid.New(), job: job}
}

// ID returns the node's unique identifier, assigned at construction
// for log correlation; it plays no role in scheduling.
func (n *Node) ID() xid.ID { return n.id }

// ActivationLimit returns the node's fixed predecessor count.
func (n *Node) ActivationLimit() uint32 { return n.activationLimit }

// run executes the job with workerIndex, then walks successors
// decrementing each one's activation count. The first successor that
// becomes runnable during the walk is returned directly to the caller
// for same-worker hand-off instead of being enqueued — this avoids a
// pointless queue round-trip and keeps the just-touched successor's
// state in cache. Every other newly-runnable successor is passed to
// markRunnable.
//
// Precondition: activationCount == 0 and the caller holds the only
// reference to n for the duration of the call.
func (n *Node) run(workerIndex int, markRunnable func(*Node)) *Node {
	if got := n.activationCount.Load(); got != 0 {
		panic(fmt.Sprintf("dsptick: node %s run with non-zero activation count %d", n.id, got))
	}

	n.job(workerIndex)

	var handoff *Node
	for _, succ := range n.successors {
		newVal := succ.activationCount.Add(^uint32(0)) // atomic decrement
		if newVal == ^uint32(0) {
			panic(fmt.Sprintf("dsptick: activation count underflow on node %s", succ.id))
		}
		if newVal != 0 {
			continue
		}
		if handoff == nil {
			handoff = succ
		} else {
			markRunnable(succ)
		}
	}

	n.activationCount.Store(n.activationLimit)
	return handoff
}

// resetActivationCount restores the node's counter to its activation
// limit. Precondition: the counter is currently zero, i.e. the node
// either just ran or this is initial graph setup.
func (n *Node) resetActivationCount() {
	if got := n.activationCount.Load(); got != 0 {
		panic(fmt.Sprintf("dsptick: reset of node %s with non-zero activation count %d", n.id, got))
	}
	n.activationCount.Store(n.activationLimit)
}
