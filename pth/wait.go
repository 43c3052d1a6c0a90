// File: pth/wait.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The wait multiplexer: blocks on the union of waitable objects contributed
// by an event ring, resolves which fired and reports composite results.

package pth

import (
	"reflect"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

// maxWaitObjects mirrors the host's historical multi-wait limit.
const maxWaitObjects = 64

// MaxRingEvents is the hard capacity ceiling of one wait call: half the
// host limit, leaving headroom for internal objects. A larger ring fails
// before any blocking occurs; callers must split the wait.
const MaxRingEvents = maxWaitObjects / 2

// slot ties one contributed waitable object back to its owning event.
type slot struct {
	ev      *Event
	obj     api.Waitable
	dispose func()
}

// Wait blocks until at least one event of the ring fires. It returns the
// number of events whose status moved to StatusOccurred, 0 when the call
// timed out (only TIME events fired), and -1 on failure. This is the only
// operation that blocks without an externally visible timeout unless the
// caller included a TIME event.
func (c *Context) Wait(ring *Event) int {
	c.ensureInit()
	c.gate.yield("wait")
	defer c.gate.resume("wait")
	return c.doWait(ring)
}

func (c *Context) doWait(ring *Event) int {
	if ring == nil {
		return 0
	}
	if n := ringCount(ring); n > MaxRingEvents {
		c.tr.Errorf("wait: ring of %d events exceeds capacity %d", n, MaxRingEvents)
		return -1
	}

	// Every wait starts from a clean slate.
	r := ring
	for {
		r.status = api.StatusPending
		r = r.next
		if r == ring {
			break
		}
	}

	// Walk the ring once and collect the waitable objects. Events that
	// cannot contribute are skipped with a diagnostic, best effort.
	slots := make([]slot, 0, MaxRingEvents)
	disposeAll := func() {
		for _, s := range slots {
			if s.dispose != nil {
				s.dispose()
			}
		}
	}
	r = ring
	for {
		switch r.kind {
		case api.KindSignals:
			c.tr.Infof("wait: add signal event")
			slots = append(slots, slot{ev: r, obj: c.signoEv})

		case api.KindFD:
			obj, dispose, err := c.classifyFD(r)
			if err != nil {
				c.tr.Errorf("wait: fd=%d excluded: %v", r.fd, err)
				break
			}
			slots = append(slots, slot{ev: r, obj: obj, dispose: dispose})

		case api.KindTime:
			if err := r.hd.(*waitable.Timer).Arm(r.dur); err != nil {
				// No rollback guarantee: earlier events keep whatever
				// classification state they reached.
				c.tr.Errorf("wait: arming timer failed: %v", err)
				disposeAll()
				return -1
			}
			slots = append(slots, slot{ev: r, obj: r.hd})

		case api.KindSelect:
			dispose, err := c.armSelect(r)
			if err != nil {
				c.tr.Errorf("wait: select watcher failed: %v", err)
				break
			}
			slots = append(slots, slot{ev: r, obj: r.hd, dispose: dispose})

		case api.KindHandle:
			slots = append(slots, slot{ev: r, obj: r.hd})

		case api.KindMutex:
			c.tr.Errorf("wait: ignoring mutex event")
		}
		r = r.next
		if r == ring {
			break
		}
	}

	if len(slots) == 0 {
		disposeAll()
		return -1
	}

	// Block on the union. Ready channels are collected once, before
	// blocking, so a concurrent reset cannot widen the wait.
	cases := make([]reflect.SelectCase, len(slots))
	for i, s := range slots {
		cases[i] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(s.obj.Ready()),
		}
	}
	c.tr.Infof("wait: blocking on %d objects", len(slots))
	reflect.Select(cases)

	// Resolve: probe every slot independently so simultaneous firings are
	// all observed in this one pass.
	count, timeCount := 0, 0
	for _, s := range slots {
		if !s.obj.Signaled() {
			continue
		}
		s.ev.status = api.StatusOccurred
		count++
		switch s.ev.kind {
		case api.KindSignals:
			*s.ev.sig.signo = int(c.signo.Load())
		case api.KindSelect:
			c.resolveSelect(s.ev)
		case api.KindTime:
			timeCount++
		}
		// One-shot kinds are reset after observation so the same object
		// does not immediately re-fire in the next wait. Timer arming
		// already consumes its firing, and an FD object's state belongs to
		// whoever consumes the readiness, so both are left alone.
		if c.cfg.EagerReset && s.ev.kind != api.KindTime && s.ev.kind != api.KindFD {
			s.obj.Reset()
		}
	}

	disposeAll()

	c.tr.Infof("wait: %d events signalled (%d timers)", count, timeCount)
	if count == 0 {
		return -1
	}
	if count == timeCount {
		// Pure timeout: the fired events still read StatusOccurred but the
		// call reports 0.
		return 0
	}
	return count
}
