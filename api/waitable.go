// File: api/waitable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract for host waitable objects the multiplexer can block on.

package api

// Waitable is a native synchronization object with manual-reset semantics.
// The wait multiplexer blocks on the union of Ready channels of a ring's
// objects, then probes each object with Signaled to resolve which fired.
type Waitable interface {
	// Ready returns a channel that is closed while the object is signaled.
	// The returned channel is only valid until the next Reset; callers
	// collect it immediately before blocking.
	Ready() <-chan struct{}

	// Signaled reports, without consuming anything, whether the object is
	// currently in the signaled state.
	Signaled() bool

	// Reset returns the object to the non-signaled state.
	Reset()

	// Close releases resources owned by the object. Waiting on a closed
	// object is a caller error.
	Close() error
}
