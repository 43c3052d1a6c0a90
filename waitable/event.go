// File: waitable/event.go
// Package waitable provides the native waitable objects the multiplexer
// blocks on: a manual-reset event, a one-shot timer and an adapter over a
// caller-owned channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package waitable

import "sync"

// Event is a manual-reset event. Set closes the current ready channel and
// the object stays signaled until Reset replaces the channel. Signaled can
// be probed any number of times without consuming the state.
type Event struct {
	mu     sync.Mutex
	ch     chan struct{}
	set    bool
	closed bool
}

// NewEvent creates an event in the non-signaled state.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{})}
}

// Set moves the event to the signaled state. Idempotent.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set || e.closed {
		return
	}
	e.set = true
	close(e.ch)
}

// Reset returns the event to the non-signaled state. Idempotent.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set || e.closed {
		return
	}
	e.set = false
	e.ch = make(chan struct{})
}

// Signaled reports whether the event is currently set.
func (e *Event) Signaled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Ready returns the channel closed while the event is set. Valid until the
// next Reset.
func (e *Event) Ready() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// Close marks the event released. Further Set/Reset calls are no-ops.
func (e *Event) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
