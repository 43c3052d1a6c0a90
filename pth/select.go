// File: pth/select.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// select(2) emulation over the event machinery.

package pth

import (
	"time"

	"github.com/momentics/gopth/api"
)

// Select waits until any descriptor of the three sets is ready or the
// timeout elapses. A negative timeout blocks indefinitely. On return the
// sets contain only the ready descriptors; the result is the total ready
// count, 0 on timeout.
func (c *Context) Select(rfds, wfds, efds *FdSet, timeout time.Duration) (int, error) {
	return c.SelectEv(rfds, wfds, efds, timeout, nil)
}

// SelectEv is Select with an extra event ring spliced into the wait. If
// only the extra ring fires, SelectEv fails with an interrupted error and
// the caller inspects its own events. The extra ring is isolated back out
// before the internal helper events are freed, so caller-owned nodes are
// never torn down here.
func (c *Context) SelectEv(rfds, wfds, efds *FdSet, timeout time.Duration, extra *Event) (int, error) {
	c.ensureInit()
	c.gate.yield("select")
	defer c.gate.resume("select")

	selRc := 0
	ev, err := c.newSelectEvent(&selRc, rfds, wfds, efds, 0)
	if err != nil {
		return -1, err
	}
	var evTime *Event
	defer func() {
		c.doFreeEvent(ev, FreeThis)
		if evTime != nil {
			c.doFreeEvent(evTime, FreeThis)
		}
	}()

	if timeout >= 0 {
		evTime, err = c.newTimeEvent(timeout, 0)
		if err != nil {
			return -1, err
		}
		Concat(ev, evTime)
	}
	if extra != nil {
		Concat(ev, extra)
	}

	for {
		rc := c.doWait(ev)
		if rc < 0 {
			return -1, api.NewError(api.CodeEIO, "wait failed")
		}
		if rc > 0 {
			break
		}
		if evTime != nil && evTime.Occurred() {
			break
		}
		// rc == 0 means only TIME events fired. If none of them is the
		// internal timeout, a caller-supplied timer in the extra ring did;
		// re-blocking would re-arm it forever instead of reporting the
		// interruption below.
		if extra != nil && ringOccurredExcept(ev, ev, evTime) {
			break
		}
	}

	ev.Isolate()
	if evTime != nil {
		evTime.Isolate()
	}

	n := 0
	selected := false
	if ev.Occurred() {
		selected = true
		n = selRc
	}
	if evTime != nil && evTime.Occurred() {
		selected = true
		rfds.Zero()
		wfds.Zero()
		efds.Zero()
		n = 0
	}
	if extra != nil && !selected {
		return -1, api.NewError(api.CodeEINTR, "interrupted by extra event")
	}
	return n, nil
}

// ringOccurredExcept reports whether any member of the ring other than the
// two given helper nodes fired during the last wait.
func ringOccurredExcept(ring, skip1, skip2 *Event) bool {
	r := ring
	for {
		if r != skip1 && r != skip2 && r.Occurred() {
			return true
		}
		r = r.next
		if r == ring {
			return false
		}
	}
}
