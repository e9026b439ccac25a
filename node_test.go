package dsptick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeRunInvokesJobAndResetsActivationCount(t *testing.T) {
	var ran int
	n := newNode(func(workerIndex int) { ran++ })
	n.activationLimit = 0

	handoff := n.run(0, func(*Node) { t.Fatal("no successors, markRunnable must not be called") })

	assert.Equal(t, 1, ran)
	assert.Nil(t, handoff)
	assert.EqualValues(t, 0, n.activationCount.Load())
}

func TestNodeRunPanicsOnNonZeroActivationCount(t *testing.T) {
	n := newNode(func(int) {})
	n.activationCount.Store(1)
	assert.Panics(t, func() { n.run(0, func(*Node) {}) })
}

func TestNodeRunReturnsFirstRunnableSuccessorAsHandoff(t *testing.T) {
	var order []string
	succ := newNode(func(int) { order = append(order, "succ") })
	succ.activationLimit = 1
	succ.activationCount.Store(1)

	n := newNode(func(int) { order = append(order, "n") })
	n.successors = []*Node{succ}

	handoff := n.run(0, func(*Node) { t.Fatal("single successor must come back as handoff, not via markRunnable") })
	assert.Same(t, succ, handoff)
	assert.EqualValues(t, 0, succ.activationCount.Load())
}

func TestNodeRunDoesNotReleaseSuccessorUntilLastPredecessorRuns(t *testing.T) {
	succ := newNode(func(int) {})
	succ.activationLimit = 2

	a := newNode(func(int) {})
	a.successors = []*Node{succ}
	b := newNode(func(int) {})
	b.successors = []*Node{succ}

	succ.activationCount.Store(2)

	var released []*Node
	handoffA := a.run(0, func(x *Node) { released = append(released, x) })
	assert.Nil(t, handoffA, "successor not yet runnable after only one of two predecessors ran")
	assert.Empty(t, released)
	assert.EqualValues(t, 1, succ.activationCount.Load())

	handoffB := b.run(0, func(x *Node) { released = append(released, x) })
	assert.Same(t, succ, handoffB, "second predecessor's run makes succ runnable via direct handoff")
}

func TestNodeRunSecondAndLaterRunnableSuccessorsGoThroughMarkRunnable(t *testing.T) {
	s1 := newNode(func(int) {})
	s2 := newNode(func(int) {})
	for _, s := range []*Node{s1, s2} {
		s.activationLimit = 1
		s.activationCount.Store(1)
	}
	n := newNode(func(int) {})
	n.successors = []*Node{s1, s2}

	var marked []*Node
	handoff := n.run(0, func(x *Node) { marked = append(marked, x) })

	assert.Same(t, s1, handoff)
	assert.Equal(t, []*Node{s2}, marked)
}

func TestResetActivationCountRestoresLimit(t *testing.T) {
	n := newNode(func(int) {})
	n.activationLimit = 3
	n.resetActivationCount()
	assert.EqualValues(t, 3, n.activationCount.Load())
}

func TestResetActivationCountPanicsWhenNotZero(t *testing.T) {
	n := newNode(func(int) {})
	n.activationLimit = 2
	n.activationCount.Store(1)
	assert.Panics(t, func() { n.resetActivationCount() })
}
