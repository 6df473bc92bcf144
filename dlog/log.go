package dlog

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	logger  = log.New(os.Stderr, "[opendwg] ", log.LstdFlags|log.Lmicroseconds)
	verbose atomic.Bool
)

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerbose turns Debugf output on or off.
func SetVerbose(v bool) {
	verbose.Store(v)
}

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

// Debugf reports recoverable problems found while decoding single objects.
func Debugf(format string, args ...interface{}) {
	if verbose.Load() {
		logger.Printf(format, args...)
	}
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}
