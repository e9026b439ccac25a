package main

import (
	"flag"
	"fmt"
	"strconv"

	dsptick "github.com/ryanmanchester/supercollider"
	"github.com/ryanmanchester/supercollider/log"
	"github.com/ryanmanchester/supercollider/metric"
	"github.com/ryanmanchester/supercollider/mock"
)

type benchCommand struct {
	graph   string
	size    int
	ticks   int
	workers int
}

// Implements the command interface.
func (cmd *benchCommand) Name() string { return "bench" }

func (cmd *benchCommand) Help() string {
	return "Run N ticks over a synthetic diamond/chain/fanout graph and report metrics"
}

func (cmd *benchCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.graph, "graph", "diamond", "graph shape: diamond, chain, fanout")
	fs.IntVar(&cmd.size, "size", 8, "chain length or fanout width (ignored for diamond)")
	fs.IntVar(&cmd.ticks, "ticks", 1000, "number of ticks to run")
	fs.IntVar(&cmd.workers, "workers", 4, "worker thread count, including master")
}

func (cmd *benchCommand) Run() error {
	g, err := cmd.buildGraph()
	if err != nil {
		return err
	}

	logger := log.GetLogger()
	counters := metric.New("tickbench")
	it := dsptick.NewInterpreter(
		dsptick.WithThreadCount(cmd.workers),
		dsptick.WithLogger(logger),
		dsptick.WithMetrics(counters),
	)
	it.InstallGraph(g)

	waker := NewSemWaker(it.UsedHelpers())
	logger.Infof("tickbench run %s: graph=%s size=%d ticks=%d workers=%d", waker.RunID(), cmd.graph, cmd.size, cmd.ticks, cmd.workers)

	done := make(chan struct{})
	finished := make(chan struct{}, it.UsedHelpers())
	for w := 1; w <= it.UsedHelpers(); w++ {
		w := w
		go func() {
			for {
				waker.Park(w)
				select {
				case <-done:
					finished <- struct{}{}
					return
				default:
				}
				it.RunWorker(w)
			}
		}()
	}

	for i := 0; i < cmd.ticks; i++ {
		if !it.BeginTick() {
			break
		}
		waker.Wake(it.UsedHelpers() + 1)
		it.RunMaster()
	}

	close(done)
	waker.Wake(it.UsedHelpers() + 1)
	for w := 0; w < it.UsedHelpers(); w++ {
		<-finished
	}

	snap := counters.Snapshot()
	fmt.Printf("ticks=%d nodesRun=%d chains=%d spins=%d avgTick=%s lastTick=%s\n",
		snap.Ticks, snap.NodesRun, snap.Chains, snap.Spins, snap.AverageTick, snap.LastTick)
	return nil
}

func (cmd *benchCommand) buildGraph() (*dsptick.Graph, error) {
	switch cmd.graph {
	case "diamond":
		g, _ := mock.Diamond()
		return g, nil
	case "chain":
		names := make([]string, cmd.size)
		for i := range names {
			names[i] = "N" + strconv.Itoa(i)
		}
		g, _ := mock.Chain(names...)
		return g, nil
	case "fanout":
		g, _ := mock.FanOut(cmd.size)
		return g, nil
	default:
		return nil, fmt.Errorf("tickbench: unknown graph shape %q", cmd.graph)
	}
}
