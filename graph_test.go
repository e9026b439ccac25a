package dsptick

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderBuildsDiamondGraph(t *testing.T) {
	b := NewBuilder()
	d := b.AddNode(func(int) {}, nil, 2)
	c := b.AddNode(func(int) {}, []*Node{d}, 1)
	bNode := b.AddNode(func(int) {}, []*Node{d}, 1)
	a := b.AddNode(func(int) {}, []*Node{bNode, c}, 0)
	b.AddInitial(a)

	g := b.Build()
	assert.Equal(t, 4, g.TotalNodes())
	assert.NoError(t, g.Validate())
}

func TestValidateDetectsCycle(t *testing.T) {
	b := NewBuilder()
	// x and y point at each other; neither is reachable from an empty
	// initial set, and indegree never drops to zero for either.
	y := b.AddNode(func(int) {}, nil, 1)
	x := b.AddNode(func(int) {}, []*Node{y}, 1)
	y.successors = []*Node{x}

	g := b.Build()
	err := g.Validate()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclic) || errors.Is(err, ErrUnreachable))
}

func TestValidateDetectsUnreachableNode(t *testing.T) {
	b := NewBuilder()
	a := b.AddNode(func(int) {}, nil, 0)
	// orphan has a nonzero activation limit but no predecessor ever
	// decrements it, so it's unreachable from the initial set.
	b.AddNode(func(int) {}, nil, 1)
	b.AddInitial(a)

	g := b.Build()
	err := g.Validate()
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestResetActivationCountsRestoresEveryNode(t *testing.T) {
	b := NewBuilder()
	d := b.AddNode(func(int) {}, nil, 2)
	c := b.AddNode(func(int) {}, []*Node{d}, 1)
	bNode := b.AddNode(func(int) {}, []*Node{d}, 1)
	a := b.AddNode(func(int) {}, []*Node{bNode, c}, 0)
	b.AddInitial(a)
	g := b.Build()

	g.resetActivationCounts()
	for _, n := range g.nodes {
		assert.Equal(t, n.activationLimit, n.activationCount.Load())
	}
}
