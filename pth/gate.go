// File: pth/gate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"sync"

	"github.com/momentics/gopth/internal/trace"
)

// gate is the process-wide serialization lock. It is held whenever user
// code of a logical thread is running, so at most one logical thread ever
// executes library-visible bookkeeping at a time. Every public operation
// yields the gate around its body, which is how many callers can be blocked
// in host calls concurrently while still observing cooperative scheduling.
//
// The gate is not recursive. Single-entry discipline is structural: internal
// helpers never call public entry points, so the same caller can never reach
// a second yield/resume bracket while inside one.
type gate struct {
	mu sync.Mutex
	tr *trace.Tracer
}

// yield releases the gate on behalf of the calling logical thread,
// immediately before the library body (and any blocking host call) runs.
func (g *gate) yield(op string) {
	g.tr.Callsf("gate: yield (%s)", op)
	g.mu.Unlock()
}

// resume reacquires the gate after the library body finished, returning
// control of the bookkeeping slot to the calling logical thread.
func (g *gate) resume(op string) {
	g.mu.Lock()
	g.tr.Callsf("gate: resume (%s)", op)
}
