package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingFIFOSingleProducer(t *testing.T) {
	r := NewRing[int](8)
	values := []int{1, 2, 3, 4, 5}
	for i := range values {
		r.Enqueue(&values[i])
	}

	for i := range values {
		v, ok := r.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, values[i], *v)
	}
	_, ok := r.TryDequeue()
	assert.False(t, ok)
	assert.True(t, r.Empty())
}

func TestRingCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := NewRing[int](5)
	assert.Equal(t, uint64(7), r.mask) // rounded to 8
}

func TestRingOverflowFallsBackToStack(t *testing.T) {
	r := NewRing[int](2) // rounds to 2
	vals := make([]int, 10)
	for i := range vals {
		vals[i] = i
		r.Enqueue(&vals[i])
	}

	seen := map[int]bool{}
	for i := 0; i < len(vals); i++ {
		v, ok := r.TryDequeue()
		require.True(t, ok)
		seen[*v] = true
	}
	assert.Len(t, seen, len(vals))
	assert.True(t, r.Empty())
}

func TestRingConcurrentProducersConsumers(t *testing.T) {
	const (
		producers = 8
		perProd   = 2000
	)
	r := NewRing[int](64)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			vals := make([]int, perProd)
			for i := 0; i < perProd; i++ {
				vals[i] = base*perProd + i
				r.Enqueue(&vals[i])
			}
		}(p)
	}

	total := producers * perProd
	results := make(chan int, total)

	producersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(producersDone)
	}()

	var consumersWG sync.WaitGroup
	consumersWG.Add(4)
	for c := 0; c < 4; c++ {
		go func() {
			defer consumersWG.Done()
			for {
				if v, ok := r.TryDequeue(); ok {
					results <- *v
					continue
				}
				select {
				case <-producersDone:
					if v, ok := r.TryDequeue(); ok {
						results <- *v
						continue
					}
					return
				default:
				}
			}
		}()
	}

	consumersWG.Wait()
	close(results)

	seen := map[int]bool{}
	for v := range results {
		seen[v] = true
	}
	assert.Len(t, seen, total)
}
