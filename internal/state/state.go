// Package state tracks the lifecycle of a Tick Interpreter between
// ticks: three phases and no events to dispatch, so a full
// state-machine-with-listeners would be unwarranted. Phases are named
// types, and an illegal transition is a loud panic rather than a
// silently wrong counter.
//
// The core relies on caller discipline to serialize graph installation
// and tick boundaries: graph mutation during a tick is forbidden, and
// callers guarantee this rather than the core enforcing it. Machine is
// not concurrency-safe by itself; it is owned exclusively by one
// Interpreter and mutated only at the points the executor's contract
// already requires external serialization.
package state

import "fmt"

// Phase identifies where an Interpreter is in its tick lifecycle.
type Phase int32

const (
	// NoGraph means no graph is installed; BeginTick refuses.
	NoGraph Phase = iota
	// Idle means a graph is installed and no tick is in progress.
	Idle
	// Ticking means a tick is in progress: between BeginTick and the
	// master's observation of node_count reaching zero.
	Ticking
)

func (p Phase) String() string {
	switch p {
	case NoGraph:
		return "no-graph"
	case Idle:
		return "idle"
	case Ticking:
		return "ticking"
	default:
		return fmt.Sprintf("state.Phase(%d)", int32(p))
	}
}

// Machine is a small phase tracker owned by one Interpreter.
type Machine struct {
	phase Phase
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// ToNoGraph transitions into NoGraph from any phase. Used by
// ReleaseGraph and by InstallGraph(nil).
func (m *Machine) ToNoGraph() { m.phase = NoGraph }

// ToIdle transitions into Idle. Used by InstallGraph (a graph is now
// installed) and by the end of a tick (the tick completed).
func (m *Machine) ToIdle() { m.phase = Idle }

// ToTicking transitions from Idle into Ticking. Panics if a tick is
// already in progress or no graph is installed — both are
// PreconditionViolations per the core's error taxonomy.
func (m *Machine) ToTicking() {
	if m.phase != Idle {
		panic(fmt.Sprintf("dsptick: cannot begin tick from phase %s", m.phase))
	}
	m.phase = Ticking
}
