package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dsptick "github.com/ryanmanchester/supercollider"
	"github.com/ryanmanchester/supercollider/mock"
)

func TestSemWakerDrivesOneTick(t *testing.T) {
	g, r := mock.Diamond()

	it := dsptick.NewInterpreter(dsptick.WithThreadCount(2))
	it.InstallGraph(g)
	waker := NewSemWaker(it.UsedHelpers())

	var wg sync.WaitGroup
	wg.Add(it.UsedHelpers())
	for w := 1; w <= it.UsedHelpers(); w++ {
		w := w
		go func() {
			defer wg.Done()
			waker.Park(w)
			it.RunWorker(w)
		}()
	}

	if !assert.True(t, it.BeginTick()) {
		return
	}
	waker.Wake(it.UsedHelpers() + 1)
	it.RunMaster()
	wg.Wait()

	assert.Equal(t, 1, r.Count("A"))
	assert.Equal(t, 1, r.Count("B"))
	assert.Equal(t, 1, r.Count("C"))
	assert.Equal(t, 1, r.Count("D"))
}

func TestSemWakerGateClosedUntilWake(t *testing.T) {
	w := NewSemWaker(2)

	parked := make(chan int, 2)
	for i := 1; i <= 2; i++ {
		i := i
		go func() {
			w.Park(i)
			parked <- i
		}()
	}

	select {
	case <-parked:
		t.Fatal("Park returned before any Wake call")
	case <-time.After(20 * time.Millisecond):
	}

	w.Wake(3) // workerCount-1 == 2 helpers
	for i := 0; i < 2; i++ {
		<-parked
	}
}

func TestSemWakerWakeClampsToMaxHelpers(t *testing.T) {
	w := NewSemWaker(1)
	assert.NotPanics(t, func() { w.Wake(10) })

	done := make(chan struct{})
	go func() {
		w.Park(1)
		close(done)
	}()
	<-done
}
