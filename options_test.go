package dsptick

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanmanchester/supercollider/log"
	"github.com/ryanmanchester/supercollider/metric"
)

type nullLogger struct{}

func (nullLogger) Debug(...interface{})         {}
func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) Info(...interface{})          {}

func TestWithThreadCountAppliesAtConstruction(t *testing.T) {
	it := NewInterpreter(WithThreadCount(6))
	assert.Equal(t, 6, it.ThreadCount())
}

func TestWithThreadCountClampsBelowOne(t *testing.T) {
	it := NewInterpreter(WithThreadCount(0))
	assert.Equal(t, 1, it.ThreadCount())
}

func TestWithQueueCapacityOverridesDefault(t *testing.T) {
	it := NewInterpreter(WithQueueCapacity(4))
	assert.NotNil(t, it.queue)
}

func TestWithLoggerOverridesDefault(t *testing.T) {
	var l log.Logger = nullLogger{}
	it := NewInterpreter(WithLogger(l))
	assert.Equal(t, l, it.logger)
}

func TestWithMetricsAttachesCounters(t *testing.T) {
	m := metric.New("test")
	it := NewInterpreter(WithMetrics(m))
	assert.Same(t, m, it.metrics)
}

func TestDefaultMetricsIsNil(t *testing.T) {
	it := NewInterpreter()
	assert.Nil(t, it.metrics)
}
