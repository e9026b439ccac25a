package dsptick

import (
	"fmt"

	"github.com/rs/xid"
)

// Graph is the immutable-per-tick collection of Nodes for one tick
// configuration, plus the seed set of initially-runnable nodes (those
// with no predecessors). A Graph owns every Node it contains.
//
// Built externally via Builder and handed to an Interpreter with
// InstallGraph (ownership transfers). Replaced or released atomically
// at tick boundaries only — never during a tick; the Interpreter
// relies on caller discipline for this, it does not lock.
type Graph struct {
	id      xid.ID
	nodes   []*Node
	initial []*Node
}

// ID returns the graph's unique identifier, for log correlation.
func (g *Graph) ID() xid.ID { return g.id }

// TotalNodes returns the number of nodes the graph owns.
func (g *Graph) TotalNodes() int { return len(g.nodes) }

// resetActivationCounts restores every node's activation count to its
// activation limit. Invoked on install; during a tick each node
// performs the equivalent reset on itself at the end of its own run.
func (g *Graph) resetActivationCounts() {
	for _, n := range g.nodes {
		n.resetActivationCount()
	}
}

// Validate performs a best-effort, build-time-only check that the
// graph's successor edges form a DAG and that every node is reachable
// from the initial set. The Interpreter never calls this itself — it
// does not validate acyclicity at runtime — it exists for callers who
// want to catch a malformed graph before it ever reaches a tick. It
// allocates, so it does not belong on the hot path.
func (g *Graph) Validate() error {
	indegree := make(map[*Node]uint32, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n] = n.activationLimit
	}

	queue := append([]*Node(nil), g.initial...)
	visited := make(map[*Node]bool, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, s := range n.successors {
			if indegree[s] == 0 {
				continue
			}
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	reachable := make(map[*Node]bool, len(g.nodes))
	stack := append([]*Node(nil), g.initial...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[n] {
			continue
		}
		reachable[n] = true
		stack = append(stack, n.successors...)
	}

	for _, n := range g.nodes {
		if visited[n] {
			continue
		}
		if reachable[n] && indegree[n] > 0 {
			return fmt.Errorf("%w: node %s", ErrCyclic, n.id)
		}
		return fmt.Errorf("%w: node %s", ErrUnreachable, n.id)
	}
	return nil
}

// Builder constructs a Graph node by node. Successor lists are fixed
// once a node is added — there is no API to add a successor to a node
// after the fact, since successor lists are fixed after construction.
type Builder struct {
	g *Graph
}

// NewBuilder starts building a new Graph.
func NewBuilder() *Builder {
	return &Builder{g: &Graph{id: xid.New()}}
}

// AddNode allocates a node with the given job, successor list and
// activation limit (its fixed predecessor count), takes ownership of
// it into the graph under construction, and returns it so it can be
// wired as a successor of a later AddNode call or registered with
// AddInitial.
func (b *Builder) AddNode(job Job, successors []*Node, activationLimit uint32) *Node {
	n := newNode(job)
	n.successors = successors
	n.activationLimit = activationLimit
	b.g.nodes = append(b.g.nodes, n)
	return n
}

// AddInitial records a non-owning reference to a node already added
// via AddNode as initially runnable — always a node with an
// activation limit of zero. It is the caller's responsibility to get
// this right; the core does not assert it.
func (b *Builder) AddInitial(n *Node) {
	b.g.initial = append(b.g.initial, n)
}

// Build finalizes the Graph. The Builder must not be reused
// afterwards.
func (b *Builder) Build() *Graph {
	return b.g
}
