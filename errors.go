package dsptick

import "errors"

// Sentinel errors for the empty-tick and graph-validation conditions.
// BeginTick itself returns a bool rather than one of these, but
// Interpreter.Err reports which applies after a false return, for
// logging. Graph.Validate returns ErrCyclic/ErrUnreachable directly.
var (
	// ErrNoGraph means no Graph has been installed via InstallGraph.
	ErrNoGraph = errors.New("dsptick: no graph installed")
	// ErrEmptyGraph means the installed Graph has zero nodes.
	ErrEmptyGraph = errors.New("dsptick: graph has zero nodes")
	// ErrCyclic is returned by Graph.Validate when a cycle is detected.
	ErrCyclic = errors.New("dsptick: graph contains a cycle")
	// ErrUnreachable is returned by Graph.Validate when a node is not
	// reachable from the initial set.
	ErrUnreachable = errors.New("dsptick: node unreachable from initial set")
)
