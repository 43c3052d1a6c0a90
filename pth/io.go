// File: pth/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking I/O wrappers. The plain variants forward to the backend or the
// host inside a gate bracket. The *Ev variants switch the descriptor to
// non-blocking mode, retry around an FD event and honor an optional extra
// event ring, which is how callers interrupt a blocked transfer.

package pth

import "github.com/momentics/gopth/api"

var errWouldBlockBackend = api.NewError(api.CodeEAGAIN, "backend descriptor not ready")

// backendReadable reports whether the backend owns fd's read side.
func (c *Context) backendReadable(fd int) bool {
	if c.backend == nil {
		return false
	}
	_, ok := c.backend.ReaderSignal(fd)
	return ok
}

// backendWritable reports whether the backend owns fd's write side.
func (c *Context) backendWritable(fd int) bool {
	if c.backend == nil {
		return false
	}
	_, ok := c.backend.WriterSignal(fd)
	return ok
}

// Read transfers up to len(p) bytes out of fd, blocking as the descriptor
// requires.
func (c *Context) Read(fd int, p []byte) (int, error) {
	c.ensureInit()
	c.gate.yield("read")
	defer c.gate.resume("read")
	if c.backendReadable(fd) {
		return c.backend.Read(fd, p)
	}
	return sysRead(fd, p)
}

// Write transfers up to len(p) bytes into fd, blocking as the descriptor
// requires.
func (c *Context) Write(fd int, p []byte) (int, error) {
	c.ensureInit()
	c.gate.yield("write")
	defer c.gate.resume("write")
	if c.backendWritable(fd) {
		return c.backend.Write(fd, p)
	}
	return sysWrite(fd, p)
}

// ReadEv is Read interruptible by an extra event ring. If only the extra
// ring fires the call fails with an interrupted error and the caller
// inspects its own events.
func (c *Context) ReadEv(fd int, p []byte, extra *Event) (int, error) {
	c.ensureInit()
	c.gate.yield("read_ev")
	defer c.gate.resume("read_ev")
	return c.transferEv(fd, extra, api.FlagReadable, func() (int, error) {
		if c.backendReadable(fd) {
			sig, _ := c.backend.ReaderSignal(fd)
			if !sig.Signaled() {
				return -1, errWouldBlockBackend
			}
			return c.backend.Read(fd, p)
		}
		return sysRead(fd, p)
	})
}

// WriteEv is Write interruptible by an extra event ring.
func (c *Context) WriteEv(fd int, p []byte, extra *Event) (int, error) {
	c.ensureInit()
	c.gate.yield("write_ev")
	defer c.gate.resume("write_ev")
	return c.transferEv(fd, extra, api.FlagWritable, func() (int, error) {
		if c.backendWritable(fd) {
			sig, _ := c.backend.WriterSignal(fd)
			if !sig.Signaled() {
				return -1, errWouldBlockBackend
			}
			return c.backend.Write(fd, p)
		}
		return sysWrite(fd, p)
	})
}

// Accept waits for and accepts one connection on a listening socket.
func (c *Context) Accept(fd int) (int, error) {
	c.ensureInit()
	c.gate.yield("accept")
	defer c.gate.resume("accept")
	return sysAccept(fd)
}

// AcceptEv is Accept interruptible by an extra event ring.
func (c *Context) AcceptEv(fd int, extra *Event) (int, error) {
	c.ensureInit()
	c.gate.yield("accept_ev")
	defer c.gate.resume("accept_ev")
	return c.transferEv(fd, extra, api.FlagReadable, func() (int, error) {
		return sysAccept(fd)
	})
}

// Connect connects a socket. addr must be a unix.Sockaddr on POSIX hosts.
func (c *Context) Connect(fd int, addr any) error {
	c.ensureInit()
	c.gate.yield("connect")
	defer c.gate.resume("connect")
	return sysConnect(fd, addr)
}

// ConnectEv starts a non-blocking connect and waits for its completion
// through a writability event, interruptible by an extra event ring.
func (c *Context) ConnectEv(fd int, addr any, extra *Event) error {
	c.ensureInit()
	c.gate.yield("connect_ev")
	defer c.gate.resume("connect_ev")

	prev, err := setFdMode(fd, true)
	if err != nil {
		return err
	}
	defer func() { _, _ = setFdMode(fd, prev) }()

	err = sysConnect(fd, addr)
	if err == nil {
		return nil
	}
	if !errWouldBlock(err) {
		return err
	}

	// The attempt is in flight. Completion is reported as writability, and
	// SO_ERROR reads zero while the attempt is still pending, so the wait
	// has to come before the outcome check.
	ev, cerr := c.newFDEvent(fd, api.FlagWritable|api.FlagStatic)
	if cerr != nil {
		return cerr
	}
	defer func() {
		ev.Isolate()
		c.doFreeEvent(ev, FreeThis)
	}()
	if extra != nil {
		Concat(ev, extra)
	}
	if rc := c.doWait(ev); rc < 0 {
		return api.NewError(api.CodeEBADF, "descriptor cannot be waited on").
			WithContext("fd", fd)
	}
	if extra != nil {
		ev.Isolate()
		if !ev.Occurred() {
			return api.NewError(api.CodeEINTR, "interrupted by extra event")
		}
	}
	return sysSocketError(fd)
}

// transferEv runs attempt in a retry loop around an FD event for the given
// direction, splicing in the extra ring on the first wait. The descriptor
// is switched to non-blocking mode for the duration (host descriptors
// only; backend descriptors use their readiness signals directly).
func (c *Context) transferEv(fd int, extra *Event, dir api.EventFlags, attempt func() (int, error)) (int, error) {
	hostFd := !(dir == api.FlagReadable && c.backendReadable(fd)) &&
		!(dir == api.FlagWritable && c.backendWritable(fd))
	if hostFd {
		prev, err := setFdMode(fd, true)
		if err != nil {
			return -1, err
		}
		defer func() { _, _ = setFdMode(fd, prev) }()
	}

	var ev *Event
	defer func() {
		if ev != nil {
			ev.Isolate()
			c.doFreeEvent(ev, FreeThis)
		}
	}()

	for {
		n, err := attempt()
		if err == nil {
			return n, nil
		}
		if !errWouldBlock(err) && api.CodeOf(err) != api.CodeEAGAIN {
			return -1, err
		}
		if ev == nil {
			var cerr error
			ev, cerr = c.newFDEvent(fd, dir|api.FlagStatic)
			if cerr != nil {
				return -1, cerr
			}
			if extra != nil {
				Concat(ev, extra)
			}
		}
		if rc := c.doWait(ev); rc < 0 {
			return -1, api.NewError(api.CodeEBADF, "descriptor cannot be waited on").
				WithContext("fd", fd)
		}
		if extra != nil {
			ev.Isolate()
			if !ev.Occurred() {
				return -1, api.NewError(api.CodeEINTR, "interrupted by extra event")
			}
		}
	}
}
