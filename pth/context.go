// File: pth/context.go
// Package pth implements a POSIX-style cooperative threading API on top of
// the host's preemptive scheduler: events, a multiplexed wait, threads,
// mutexes and blocking I/O with cancellation.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"os"
	"sync/atomic"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/internal/config"
	"github.com/momentics/gopth/internal/trace"
	"github.com/momentics/gopth/waitable"
)

// Context owns all process-wide state of the library: the serialization
// gate, the pending-signal cell, the live thread counter and the policy
// configuration. It is created explicitly so lifecycle and test isolation
// stay visible, instead of hiding the state in package globals.
type Context struct {
	cfg     *config.Config
	tr      *trace.Tracer
	gate    gate
	backend api.IOBackend

	initialized atomic.Bool

	// Signal support. One pending signal number at a time; a newer signal
	// overwrites the cell before the previous one was consumed.
	signoEv *waitable.Event
	signo   atomic.Int32

	// Approximate count of live spawned threads. Incremented on thread-body
	// entry, decremented on exit.
	threads atomic.Int64
}

// Option customizes a Context.
type Option func(*Context)

// WithBackend attaches the pipe/file I/O backend collaborator.
func WithBackend(b api.IOBackend) Option {
	return func(c *Context) { c.backend = b }
}

// WithConfig replaces the loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *Context) { c.cfg = cfg }
}

// New creates an uninitialized Context. Settings come from the environment
// (GOPTH_DEBUG, GOPTH_CONFIG) unless overridden by options.
func New(opts ...Option) *Context {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	c := &Context{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	c.tr = trace.New(c.cfg.DebugLevel)
	c.gate.tr = c.tr
	if err != nil {
		c.tr.Errorf("config: %v (using defaults)", err)
	}
	return c
}

// Init starts the library. On return the calling logical thread holds the
// gate, mirroring the convention that user code always runs gate-held.
// Idempotent.
func (c *Context) Init() error {
	if c.initialized.Load() {
		return nil
	}
	c.tr.Infof("init: called")
	c.signo.Store(0)
	if c.signoEv != nil {
		_ = c.signoEv.Close()
	}
	c.signoEv = waitable.NewEvent()
	c.initialized.Store(true)
	c.gate.resume("init")
	return nil
}

// Shutdown tears the library down: the global signal event is released and
// the gate is dropped. Expected to be called once, at the very end.
func (c *Context) Shutdown() error {
	if !c.initialized.Load() {
		return nil
	}
	c.signo.Store(0)
	if c.signoEv != nil {
		_ = c.signoEv.Close()
		c.signoEv = nil
	}
	c.initialized.Store(false)
	c.gate.yield("shutdown")
	return nil
}

// Exit shuts the library down and terminates the process.
func (c *Context) Exit(status int) {
	c.ensureInit()
	_ = c.Shutdown()
	os.Exit(status)
}

// Threads returns the approximate number of live spawned threads.
func (c *Context) Threads() int64 {
	return c.threads.Load()
}

// CtrlQuery selects a runtime statistic for Ctrl.
type CtrlQuery int

const (
	// CtrlGetThreads queries the live thread count.
	CtrlGetThreads CtrlQuery = iota + 1
)

// Ctrl answers a runtime query, -1 for unknown queries.
func (c *Context) Ctrl(q CtrlQuery) int64 {
	switch q {
	case CtrlGetThreads:
		return c.Threads()
	}
	return -1
}

// ensureInit performs the implicit startup every public operation relies on.
func (c *Context) ensureInit() {
	if !c.initialized.Load() {
		_ = c.Init()
	}
}
