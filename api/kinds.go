// File: api/kinds.go
// Package api defines the shared contracts of the gopth library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// EventKind selects the waitable condition an event represents.
// The kind is fixed at construction time.
type EventKind int

const (
	// KindFD waits for a single descriptor to become readable or writable.
	KindFD EventKind = iota + 1
	// KindSelect waits for readiness on any descriptor of three fd-sets.
	KindSelect
	// KindTime fires after a relative duration has elapsed.
	KindTime
	// KindSignals fires when one of a set of process signals is delivered.
	KindSignals
	// KindMutex names a mutex to wait for. Not supported in a multiplexed
	// wait; such events are skipped with a diagnostic.
	KindMutex
	// KindHandle waits on a caller-supplied waitable object. The caller
	// retains ownership of the object.
	KindHandle
)

// String returns the kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case KindFD:
		return "fd"
	case KindSelect:
		return "select"
	case KindTime:
		return "time"
	case KindSignals:
		return "signals"
	case KindMutex:
		return "mutex"
	case KindHandle:
		return "handle"
	}
	return "unknown"
}

// EventStatus is the observable state of an event.
type EventStatus int

const (
	// StatusPending means the condition has not been observed to fire.
	StatusPending EventStatus = iota
	// StatusOccurred means the condition fired during the last wait.
	StatusOccurred
)

// EventFlags further describe an event at construction time.
type EventFlags uint

const (
	// FlagStatic is an allocation hint carried over from the portable API.
	// It is accepted and recorded but has no effect on lifetime.
	FlagStatic EventFlags = 1 << iota
	// FlagReadable selects the read direction of an FD event.
	FlagReadable
	// FlagWritable selects the write direction of an FD event.
	FlagWritable
	// FlagChain requests event chaining. Rejected at construction.
	FlagChain
	// FlagReuse requests event reuse. Rejected at construction.
	FlagReuse
)

// UnsupportedFlags are modifier combinations every constructor rejects.
const UnsupportedFlags = FlagChain | FlagReuse
