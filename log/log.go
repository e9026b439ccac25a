// Package log provides the executor's logging wrapper around logrus.
// Debug-level tracing is reserved for graph install/release and tick
// begin/end; nothing in this package is called from inside Node.run or
// the worker loop, since even a level check costs more than the
// executor's hot path budget allows.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug bool

// Logger is the subset of *logrus.Logger the executor depends on, so
// callers can substitute their own implementation via
// dsptick.WithLogger without pulling in logrus.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("SC_DEBUG"))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance. Its level is controlled by
// the SC_DEBUG environment variable.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
