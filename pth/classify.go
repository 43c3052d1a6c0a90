// File: pth/classify.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness classifier: decides which waitable resource represents a
// descriptor's readiness and arms the per-call watchers behind FD and
// select events.

package pth

import (
	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

// classifyFD resolves the waitable resource for an FD event. Backend-owned
// descriptors reuse the backend's reader/writer readiness signal for the
// requested direction and need no per-call disposal. Sockets get a per-call
// watcher bound to the event's own object. Anything else cannot be waited
// on and is reported so the multiplexer can exclude it.
func (c *Context) classifyFD(ev *Event) (api.Waitable, func(), error) {
	wantRead := ev.flags&api.FlagReadable != 0
	if c.backend != nil {
		if wantRead {
			if w, ok := c.backend.ReaderSignal(ev.fd); ok {
				return w, nil, nil
			}
		} else {
			if w, ok := c.backend.WriterSignal(ev.fd); ok {
				return w, nil, nil
			}
		}
	}
	sock, err := isSocket(ev.fd)
	if err != nil {
		return nil, nil, err
	}
	if !sock {
		return nil, nil, api.NewError(api.CodeEBADF, "cannot wait on this descriptor").
			WithContext("fd", ev.fd)
	}
	dispose, err := watchFDSet(
		[]fdInterest{{fd: ev.fd, read: wantRead, write: !wantRead}},
		ev.hd.(*waitable.Event),
	)
	if err != nil {
		return nil, nil, err
	}
	return ev.hd, dispose, nil
}

// selectInterests merges a select payload's three fd-sets into one interest
// per descriptor, combining directions for descriptors present in several
// sets.
func selectInterests(sel *selectPayload) []fdInterest {
	merged := make(map[int]*fdInterest)
	order := make([]int, 0)
	add := func(s *FdSet, dir func(*fdInterest)) {
		for _, fd := range s.Fds() {
			in, ok := merged[fd]
			if !ok {
				in = &fdInterest{fd: fd}
				merged[fd] = in
				order = append(order, fd)
			}
			dir(in)
		}
	}
	add(sel.rfds, func(in *fdInterest) { in.read = true })
	add(sel.wfds, func(in *fdInterest) { in.write = true })
	add(sel.efds, func(in *fdInterest) { in.except = true })

	out := make([]fdInterest, 0, len(order))
	for _, fd := range order {
		out = append(out, *merged[fd])
	}
	return out
}

// armSelect arms the per-call watcher signaling the select event's object
// when any descriptor of its union becomes ready.
func (c *Context) armSelect(ev *Event) (func(), error) {
	ins := selectInterests(ev.sel)
	if len(ins) == 0 {
		// Nothing to watch; the event can only fire through a timeout or
		// another ring member.
		return nil, nil
	}
	return watchFDSet(ins, ev.hd.(*waitable.Event))
}

// resolveSelect re-derives per-descriptor readiness for a fired select
// event, rewrites the three fd-sets to the now-ready subsets and stores the
// total ready count in the event's output slot.
func (c *Context) resolveSelect(ev *Event) {
	ins := selectInterests(ev.sel)
	ev.sel.rfds.Zero()
	ev.sel.wfds.Zero()
	ev.sel.efds.Zero()

	ntotal := 0
	for _, in := range ins {
		r, w, x, err := probeFD(in)
		if err != nil {
			c.tr.Errorf("wait: readiness probe fd=%d failed: %v", in.fd, err)
			continue
		}
		if r {
			ev.sel.rfds.Set(in.fd)
			ntotal++
		}
		if w {
			ev.sel.wfds.Set(in.fd)
			ntotal++
		}
		if x {
			ev.sel.efds.Set(in.fd)
			ntotal++
		}
	}
	*ev.sel.rc = ntotal
}
