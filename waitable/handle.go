// File: waitable/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package waitable

// Handle adapts a caller-owned channel to the waitable contract. The
// convention is broadcast signaling: the caller closes the channel to
// signal. Reset and Close are no-ops because the caller owns the channel;
// a handle therefore never un-signals.
type Handle struct {
	ch <-chan struct{}
}

// NewHandle wraps a caller-owned signal channel.
func NewHandle(ch <-chan struct{}) *Handle {
	return &Handle{ch: ch}
}

// Ready returns the caller's channel.
func (h *Handle) Ready() <-chan struct{} { return h.ch }

// Signaled reports whether the caller's channel has been closed.
func (h *Handle) Signaled() bool {
	select {
	case <-h.ch:
		return true
	default:
		return false
	}
}

// Reset is a no-op; the caller owns the channel's state.
func (h *Handle) Reset() {}

// Close is a no-op; the caller owns the channel.
func (h *Handle) Close() error { return nil }
