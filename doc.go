// Package dsptick implements a tick-scoped, parallel task-graph
// executor for real-time digital signal processing.
//
// Per audio tick, a directed acyclic graph of DSP jobs is executed
// such that every job runs exactly once after all of its predecessors
// have run, using a fixed pool of worker threads. The design targets
// low, predictable per-tick latency: no heap traffic or blocking
// synchronization on the hot path, and deterministic completion
// ordering of the tick from the master thread's perspective.
//
// This package covers the tick-scoped DAG executor only: the
// dependency graph ([Graph], [Node]), the per-tick activation-count
// protocol that releases successors, the lock-free runnable queue
// shared by the master and helper workers, and the completion
// detection protocol ([Interpreter]). It does not create threads,
// drive audio I/O, or define what a job computes — those are named,
// not specified, collaborator contracts: [Job] and [Waker].
//
// A caller drives one tick like this:
//
//	it := dsptick.NewInterpreter(dsptick.WithThreadCount(4))
//	it.InstallGraph(g)
//	if it.BeginTick() {
//		go it.RunWorker(1)
//		go it.RunWorker(2)
//		go it.RunWorker(3)
//		it.RunMaster()
//	}
//
// Graph installation and tick boundaries are not internally locked;
// the caller must serialize them, as documented on [Interpreter].
package dsptick
