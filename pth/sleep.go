// File: pth/sleep.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import "time"

// Timeout converts a seconds/microseconds pair into a duration, rounding
// half-up at the host's time unit.
func Timeout(sec, usec int64) time.Duration {
	return time.Duration(sec)*time.Second + time.Duration(usec)*time.Microsecond
}

// Sleep suspends the calling logical thread for sec seconds. Sleep(0)
// returns immediately.
func (c *Context) Sleep(sec int) error {
	return c.sleepFor(Timeout(int64(sec), 0))
}

// Usleep suspends the calling logical thread for usec microseconds.
func (c *Context) Usleep(usec int64) error {
	return c.sleepFor(Timeout(0, usec))
}

func (c *Context) sleepFor(d time.Duration) error {
	c.ensureInit()
	c.gate.yield("sleep")
	defer c.gate.resume("sleep")

	if d == 0 {
		return nil
	}
	ev, err := c.newTimeEvent(d, 0)
	if err != nil {
		return err
	}
	c.doWait(ev)
	c.doFreeEvent(ev, FreeAll)
	return nil
}
