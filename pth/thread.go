// File: pth/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread lifecycle: spawn, cooperative cancel/abort, join, self. Threads
// are host goroutines; cooperative semantics come from the gate, which the
// launch trampoline holds while the user function runs.

package pth

import (
	stdctx "context"
	"sync/atomic"
	"time"

	"github.com/momentics/gopth/api"
)

// Attr describes a thread at spawn time. The record is consumed by Spawn
// and never consulted afterwards. StackSize is accepted for source
// compatibility; goroutine stacks grow on demand and the hint is ignored.
type Attr struct {
	Joinable  bool
	StackSize int
	Name      string
}

// Func is a thread body. The context carries the thread's cancellation
// token; bodies that want to be cancelable check it at their own
// checkpoints. The return value is retained for Join on joinable threads.
type Func func(ctx stdctx.Context, arg any) any

// Thread is the handle of a spawned thread, usable for identity
// comparison, cancellation and join.
type Thread struct {
	name     string
	joinable bool

	cancel stdctx.CancelFunc
	done   chan struct{}
	result atomic.Value // of threadResult
}

type threadResult struct{ value any }

// Name returns the thread's spawn-time name.
func (t *Thread) Name() string { return t.name }

// Exited reports whether the thread body has returned.
func (t *Thread) Exited() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

type threadKey struct{}

// Self returns the Thread of the calling body, or nil when called outside
// a spawned thread. The handle is for identity comparison.
func Self(ctx stdctx.Context) *Thread {
	t, _ := ctx.Value(threadKey{}).(*Thread)
	return t
}

// Spawn starts a new thread running fn(ctx, arg). The handle is fully
// recorded before the body can observe it, mirroring the suspended-start
// convention of the original. Returns an error if attrs are absent.
func (c *Context) Spawn(attr *Attr, fn Func, arg any) (*Thread, error) {
	if attr == nil {
		return nil, api.NewError(api.CodeEINVAL, "spawn needs attributes")
	}
	if fn == nil {
		return nil, api.NewError(api.CodeEINVAL, "spawn needs a function")
	}
	c.ensureInit()
	c.gate.yield("spawn")
	defer c.gate.resume("spawn")

	tctx, cancel := stdctx.WithCancel(stdctx.Background())
	t := &Thread{
		name:     attr.Name,
		joinable: attr.Joinable,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	tctx = stdctx.WithValue(tctx, threadKey{}, t)
	c.tr.Infof("spawn: creating thread %q", attr.Name)
	go c.launchThread(t, tctx, fn, arg)
	return t, nil
}

// launchThread is the trampoline: it takes the gate on behalf of the new
// logical thread, accounts for it, runs the body, and undoes everything in
// reverse order before the goroutine exits.
func (c *Context) launchThread(t *Thread, tctx stdctx.Context, fn Func, arg any) {
	c.gate.resume("launch_thread")
	c.threads.Add(1)
	res := fn(tctx, arg)
	c.threads.Add(-1)
	t.result.Store(threadResult{value: res})
	c.gate.yield("launch_thread")
	close(t.done)
}

// Cancel asks the thread to stop through its token and waits a bounded
// grace period for it to comply ("friendly"). It reports whether the
// thread has exited. A thread that ignores its token keeps running and
// stays counted; forced termination of a host goroutine is not possible,
// and any resource it owns remains with it.
func (c *Context) Cancel(t *Thread) bool {
	if t == nil {
		return false
	}
	c.ensureInit()
	c.gate.yield("cancel")
	defer c.gate.resume("cancel")

	t.cancel()
	grace := time.NewTimer(c.cfg.CancelGrace)
	defer grace.Stop()
	select {
	case <-t.done:
		return true
	case <-grace.C:
		c.tr.Errorf("cancel: thread %q did not exit within grace period", t.name)
		return false
	}
}

// Abort cancels the thread's token without waiting ("cruel"). It reports
// whether the thread had already exited.
func (c *Context) Abort(t *Thread) bool {
	if t == nil {
		return false
	}
	c.ensureInit()
	c.gate.yield("abort")
	defer c.gate.resume("abort")

	t.cancel()
	return t.Exited()
}

// Join blocks until the thread body returns and yields its result. Only
// joinable threads may be joined.
func (c *Context) Join(t *Thread) (any, error) {
	if t == nil {
		return nil, api.NewError(api.CodeEINVAL, "join needs a thread")
	}
	if !t.joinable {
		return nil, api.NewError(api.CodeEINVAL, "thread is not joinable").
			WithContext("thread", t.name)
	}
	c.ensureInit()
	c.gate.yield("join")
	defer c.gate.resume("join")

	<-t.done
	res, _ := t.result.Load().(threadResult)
	return res.value, nil
}
