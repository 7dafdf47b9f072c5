package trknav

import (
	"fmt"
	"sync"
)

// Trace toggles verbose navigator tracing. traceLog checks the flag at
// the call site so a single binary can flip tracing on without a
// rebuild; the hot-path cost when Trace is false is one bool read.
var Trace = false

func traceLog(format string, args ...interface{}) {
	if !Trace {
		return
	}
	fmt.Printf("[trknav] "+format+"\n", args...)
}

var traceOnce sync.Once

func traceLogOnce(format string, args ...interface{}) {
	if !Trace {
		return
	}
	traceOnce.Do(func() {
		fmt.Printf("[trknav] "+format+"\n", args...)
	})
}

// Inspector is the navigation observation hook: a callback invoked at
// defined call sites (after init, after each update branch, on abort
// and exit). message is a short tag naming the call site; extra carries
// call-site-specific context for formatting.
type Inspector func(state *NavigationState, cfg Config, message string, extra ...interface{})

// NoopInspector is the zero-cost default: a do-nothing hook rather
// than a nil-checked optional at every call site.
func NoopInspector(*NavigationState, Config, string, ...interface{}) {}

// TraceInspector is a ready-made Inspector that forwards to traceLog,
// useful for tests and the demonstration CLI.
func TraceInspector(state *NavigationState, cfg Config, message string, extra ...interface{}) {
	if !Trace {
		return
	}
	traceLog("%s volume=%d status=%v trust=%v next=%d last=%d extra=%v",
		message, state.Volume, state.Status, state.Trust, state.next, state.last, extra)
}
