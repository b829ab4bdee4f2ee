package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("MARQUEE_TRACE") != "")
}

// TraceEnabled reports whether MARQUEE_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the trace flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
