// File: pth/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process signal wiring for KindSignals events. The library keeps track of
// only one pending signal number at a time; a newer signal overwrites the
// cell before the previous one was consumed.

package pth

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/momentics/gopth/waitable"
)

// watchSignals registers the event's signal set with the host and routes
// deliveries into the process-wide signal cell and signal event.
func (c *Context) watchSignals(ev *Event, sigs []os.Signal) {
	target := c.signoEv
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)
	go func(target *waitable.Event) {
		for {
			select {
			case s := <-ch:
				n := signalNumber(s)
				c.signo.Store(int32(n))
				target.Set()
				c.tr.Infof("signal: delivered %d", n)
			case <-done:
				return
			}
		}
	}(target)
	ev.sig.stop = func() {
		signal.Stop(ch)
		close(done)
	}
}

// signalNumber extracts the numeric signal value usable in the event's
// output slot.
func signalNumber(s os.Signal) int {
	if ss, ok := s.(syscall.Signal); ok {
		return int(ss)
	}
	return 0
}
