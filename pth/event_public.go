// File: pth/event_public.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Public constructor surface. Each wrapper brackets its body with the
// serialization gate; composite operations (select, sleep, event-driven
// I/O) call the internal constructors directly because they already hold a
// yield/resume bracket of their own.

package pth

import (
	"os"
	"time"

	"github.com/momentics/gopth/api"
)

// NewFDEvent builds an event that fires when fd becomes readable or
// writable. Exactly one of FlagReadable/FlagWritable must be set in flags.
func (c *Context) NewFDEvent(fd int, flags api.EventFlags) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_fd")
	defer c.gate.resume("event_fd")
	return c.newFDEvent(fd, flags)
}

// NewSelectEvent builds an event that fires when any descriptor in the
// three fd-sets becomes ready. After a wait in which it fired, the sets are
// rewritten to the ready subsets and *rc holds the total ready count.
func (c *Context) NewSelectEvent(rc *int, rfds, wfds, efds *FdSet, flags api.EventFlags) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_select")
	defer c.gate.resume("event_select")
	return c.newSelectEvent(rc, rfds, wfds, efds, flags)
}

// NewTimeEvent builds an event firing after the relative duration d.
func (c *Context) NewTimeEvent(d time.Duration, flags api.EventFlags) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_time")
	defer c.gate.resume("event_time")
	return c.newTimeEvent(d, flags)
}

// NewSignalsEvent builds an event firing when one of sigs is delivered to
// the process. The delivered signal's number is stored in *signo. Only one
// signal number is remembered at a time, process-wide.
func (c *Context) NewSignalsEvent(signo *int, flags api.EventFlags, sigs ...os.Signal) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_signals")
	defer c.gate.resume("event_signals")
	return c.newSignalsEvent(signo, flags, sigs...)
}

// NewMutexEvent builds an event naming a mutex. The multiplexer does not
// support mutex waits; such events are skipped with a diagnostic.
func (c *Context) NewMutexEvent(m *Mutex, flags api.EventFlags) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_mutex")
	defer c.gate.resume("event_mutex")
	return c.newMutexEvent(m, flags)
}

// NewHandleEvent builds an event waiting on a caller-supplied waitable
// object. The caller keeps ownership; teardown never closes it.
func (c *Context) NewHandleEvent(w api.Waitable, flags api.EventFlags) (*Event, error) {
	c.ensureInit()
	c.gate.yield("event_handle")
	defer c.gate.resume("event_handle")
	return c.newHandleEvent(w, flags)
}
