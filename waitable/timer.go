// File: waitable/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package waitable

import (
	"sync"
	"time"

	"github.com/momentics/gopth/api"
)

// Timer is a one-shot waitable timer. Arming schedules the underlying event
// to be set after a relative duration; arming again consumes any previous
// schedule, so a timer never re-fires from a stale arm.
type Timer struct {
	mu sync.Mutex
	ev *Event
	t  *time.Timer
}

// NewTimer creates an unarmed timer.
func NewTimer() *Timer {
	return &Timer{ev: NewEvent()}
}

// Arm schedules the timer to fire once after d. A zero duration fires
// immediately. Negative durations are rejected.
func (t *Timer) Arm(d time.Duration) error {
	if d < 0 {
		return api.NewError(api.CodeEINVAL, "negative timer duration").
			WithContext("duration", d.String())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.t != nil {
		t.t.Stop()
	}
	t.ev.Reset()
	ev := t.ev
	t.t = time.AfterFunc(d, ev.Set)
	return nil
}

// Signaled reports whether the timer has fired since it was last armed.
func (t *Timer) Signaled() bool { return t.ev.Signaled() }

// Ready returns the channel closed when the timer fires.
func (t *Timer) Ready() <-chan struct{} { return t.ev.Ready() }

// Reset clears the fired state without re-arming.
func (t *Timer) Reset() { t.ev.Reset() }

// Close stops any pending schedule and releases the timer.
func (t *Timer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
	return t.ev.Close()
}
