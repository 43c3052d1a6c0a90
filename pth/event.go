// File: pth/event.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event nodes, the circular event ring, and the per-kind constructors.

package pth

import (
	"os"
	"time"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

// Event is a single awaitable condition: a kind fixed at construction, a
// status the multiplexer flips, and a kind-specific payload. Events form a
// circular doubly linked ring; a freshly constructed event is a singleton
// ring. Payloads are typed per kind so only the matching arm is ever read.
type Event struct {
	next, prev *Event

	kind   api.EventKind
	status api.EventStatus
	flags  api.EventFlags

	// hd is the bound native waitable object. For KindHandle it is the
	// caller-supplied object and owned stays false, so teardown never
	// closes it.
	hd    api.Waitable
	owned bool

	fd  int
	sel *selectPayload
	dur time.Duration
	sig *signalPayload
	mx  *Mutex
}

type selectPayload struct {
	rc               *int
	rfds, wfds, efds *FdSet
}

type signalPayload struct {
	signo *int
	stop  func()
}

// Kind returns the event's kind.
func (ev *Event) Kind() api.EventKind { return ev.kind }

// Status returns the event's current status. Repeated queries without an
// intervening wait always return the same value.
func (ev *Event) Status() api.EventStatus {
	if ev == nil {
		return api.StatusPending
	}
	return ev.status
}

// Occurred reports whether the event fired during the last wait.
func (ev *Event) Occurred() bool { return ev.Status() == api.StatusOccurred }

// checkFlags rejects the modifier combinations no constructor supports.
func checkFlags(flags api.EventFlags) error {
	if flags&api.UnsupportedFlags != 0 {
		return api.NewError(api.CodeEINVAL, "chain/reuse event modifiers are not supported")
	}
	return nil
}

func newEvent(kind api.EventKind, flags api.EventFlags, hd api.Waitable, owned bool) *Event {
	ev := &Event{
		kind:   kind,
		status: api.StatusPending,
		flags:  flags &^ (api.FlagChain | api.FlagReuse),
		hd:     hd,
		owned:  owned,
	}
	ev.next = ev
	ev.prev = ev
	return ev
}

// newFDEvent builds an event that fires when fd becomes readable or
// writable. Exactly one of FlagReadable/FlagWritable must be set in flags.
func (c *Context) newFDEvent(fd int, flags api.EventFlags) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	dir := flags & (api.FlagReadable | api.FlagWritable)
	if dir != api.FlagReadable && dir != api.FlagWritable {
		return nil, api.NewError(api.CodeEINVAL, "fd event needs exactly one direction flag")
	}
	ev := newEvent(api.KindFD, flags, waitable.NewEvent(), true)
	ev.fd = fd
	c.tr.Infof("event: fd=%d dir=%s", fd, map[api.EventFlags]string{
		api.FlagReadable: "read", api.FlagWritable: "write"}[dir])
	return ev, nil
}

// newSelectEvent builds an event that fires when any descriptor in the
// three fd-sets becomes ready. After a wait in which it fired, the sets are
// rewritten to the ready subsets and *rc holds the total ready count.
func (c *Context) newSelectEvent(rc *int, rfds, wfds, efds *FdSet, flags api.EventFlags) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, api.NewError(api.CodeEINVAL, "select event needs a result slot")
	}
	ev := newEvent(api.KindSelect, flags, waitable.NewEvent(), true)
	ev.sel = &selectPayload{rc: rc, rfds: rfds, wfds: wfds, efds: efds}
	return ev, nil
}

// newTimeEvent builds an event firing after the relative duration d.
func (c *Context) newTimeEvent(d time.Duration, flags api.EventFlags) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, api.NewError(api.CodeEINVAL, "negative timeout")
	}
	ev := newEvent(api.KindTime, flags, waitable.NewTimer(), true)
	ev.dur = d
	return ev, nil
}

// newSignalsEvent builds an event firing when one of sigs is delivered to
// the process. The delivered signal's number is stored in *signo. Only one
// signal number is remembered at a time, process-wide.
func (c *Context) newSignalsEvent(signo *int, flags api.EventFlags, sigs ...os.Signal) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	if signo == nil || len(sigs) == 0 {
		return nil, api.NewError(api.CodeEINVAL, "signals event needs a signal set and an output slot")
	}
	ev := newEvent(api.KindSignals, flags, waitable.NewEvent(), true)
	ev.sig = &signalPayload{signo: signo}
	c.watchSignals(ev, sigs)
	return ev, nil
}

// newMutexEvent builds an event naming a mutex. The multiplexer does not
// support mutex waits; such events are skipped with a diagnostic.
func (c *Context) newMutexEvent(m *Mutex, flags api.EventFlags) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, api.NewError(api.CodeEINVAL, "mutex event needs a mutex")
	}
	ev := newEvent(api.KindMutex, flags, waitable.NewEvent(), true)
	ev.mx = m
	return ev, nil
}

// newHandleEvent builds an event waiting on a caller-supplied waitable
// object. The caller keeps ownership; teardown never closes it.
func (c *Context) newHandleEvent(w api.Waitable, flags api.EventFlags) (*Event, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, api.NewError(api.CodeEINVAL, "handle event needs a waitable")
	}
	return newEvent(api.KindHandle, flags, w, false), nil
}

// NewChannelEvent is a convenience wrapper for NewHandleEvent over a raw
// channel following the close-to-signal convention.
func (c *Context) NewChannelEvent(ch <-chan struct{}, flags api.EventFlags) (*Event, error) {
	return c.NewHandleEvent(waitable.NewHandle(ch), flags)
}

// Concat splices head and the given rings into one ring and returns head.
// The input rings stop existing as distinct structures. Insertion order is
// not meaningful; only membership is.
func Concat(head *Event, rings ...*Event) *Event {
	if head == nil {
		return nil
	}
	ev := head
	last := ev.next
	for _, next := range rings {
		if next == nil {
			continue
		}
		ev.next = next
		tmp := next.prev
		next.prev = ev
		ev = tmp
	}
	ev.next = last
	last.prev = ev
	return head
}

// Isolate extracts ev from its ring. It returns the remainder ring, or nil
// if ev was the sole member. ev itself becomes a singleton ring again.
func (ev *Event) Isolate() *Event {
	if ev == nil {
		return nil
	}
	if ev.next == ev && ev.prev == ev {
		return nil
	}
	ring := ev.next
	ev.prev.next = ev.next
	ev.next.prev = ev.prev
	ev.prev = ev
	ev.next = ev
	return ring
}

// ringCount returns the number of events in the ring containing ev.
func ringCount(ev *Event) int {
	if ev == nil {
		return 0
	}
	cnt := 0
	r := ev
	for {
		cnt++
		r = r.next
		if r == ev {
			return cnt
		}
	}
}

// FreeMode selects single-node versus whole-ring teardown.
type FreeMode int

const (
	// FreeThis unlinks and frees only the given event.
	FreeThis FreeMode = iota
	// FreeAll walks the ring and frees every member once.
	FreeAll
)

// FreeEvent destroys ev (FreeThis) or ev's whole ring (FreeAll), releasing
// each freed event's bound native object. Caller-supplied handle objects
// are left untouched. Returns false for a nil event or unknown mode.
func (c *Context) FreeEvent(ev *Event, mode FreeMode) bool {
	c.ensureInit()
	c.gate.yield("event_free")
	defer c.gate.resume("event_free")
	return c.doFreeEvent(ev, mode)
}

func (c *Context) doFreeEvent(ev *Event, mode FreeMode) bool {
	if ev == nil {
		return false
	}
	switch mode {
	case FreeAll:
		cur := ev
		for {
			next := cur.next
			c.releaseEvent(cur)
			cur = next
			if cur == ev {
				break
			}
		}
	case FreeThis:
		ev.prev.next = ev.next
		ev.next.prev = ev.prev
		ev.next = ev
		ev.prev = ev
		c.releaseEvent(ev)
	default:
		return false
	}
	return true
}

// releaseEvent drops the event's bound resources.
func (c *Context) releaseEvent(ev *Event) {
	if ev.sig != nil && ev.sig.stop != nil {
		ev.sig.stop()
		ev.sig.stop = nil
	}
	if ev.owned && ev.hd != nil {
		_ = ev.hd.Close()
	}
	ev.hd = nil
}
