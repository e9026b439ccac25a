package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineTransitions(t *testing.T) {
	var m Machine
	assert.Equal(t, NoGraph, m.Phase())

	m.ToIdle()
	assert.Equal(t, Idle, m.Phase())

	m.ToTicking()
	assert.Equal(t, Ticking, m.Phase())

	m.ToIdle()
	assert.Equal(t, Idle, m.Phase())

	m.ToNoGraph()
	assert.Equal(t, NoGraph, m.Phase())
}

func TestMachineToTickingPanicsWhenNotIdle(t *testing.T) {
	var m Machine
	assert.Panics(t, func() { m.ToTicking() })

	m.ToIdle()
	m.ToTicking()
	assert.Panics(t, func() { m.ToTicking() })
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "no-graph", NoGraph.String())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "ticking", Ticking.String())
}
