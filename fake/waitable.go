// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"
	"sync/atomic"
)

// Waitable is a recording waitable object for tests. It behaves like a
// manual-reset event and counts Reset and Close calls so tests can assert
// on the consumption policy applied to it.
type Waitable struct {
	mu     sync.Mutex
	ch     chan struct{}
	set    bool
	resets atomic.Int64
	closes atomic.Int64
}

// NewWaitable creates an unsignaled recording waitable.
func NewWaitable() *Waitable {
	return &Waitable{ch: make(chan struct{})}
}

// Set signals the waitable.
func (w *Waitable) Set() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.set {
		w.set = true
		close(w.ch)
	}
}

// Ready returns the channel closed while the waitable is signaled.
func (w *Waitable) Ready() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ch
}

// Signaled reports the current state without consuming it.
func (w *Waitable) Signaled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set
}

// Reset returns the waitable to the unsignaled state and records the call.
func (w *Waitable) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resets.Add(1)
	if w.set {
		w.set = false
		w.ch = make(chan struct{})
	}
}

// Close records the call; the fake holds no host resource.
func (w *Waitable) Close() error {
	w.closes.Add(1)
	return nil
}

// Resets returns the number of Reset calls observed.
func (w *Waitable) Resets() int64 { return w.resets.Load() }

// Closes returns the number of Close calls observed.
func (w *Waitable) Closes() int64 { return w.closes.Load() }
