//go:build unix

// File: pth/signal_unix_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWaitSignalsEvent(t *testing.T) {
	c := newTestContext(t)

	signo := 0
	ev, err := c.NewSignalsEvent(&signo, 0, syscall.SIGUSR1)
	require.NoError(t, err)
	defer c.FreeEvent(ev, FreeAll)

	go func() {
		time.Sleep(20 * time.Millisecond)
		unix.Kill(unix.Getpid(), unix.SIGUSR1)
	}()

	assert.Equal(t, 1, c.Wait(ev))
	assert.True(t, ev.Occurred())
	assert.Equal(t, int(syscall.SIGUSR1), signo)
}

func TestSignalsEventDetachesOnFree(t *testing.T) {
	c := newTestContext(t)

	// Keep a handler registered so the late SIGUSR2 below cannot revert to
	// its default disposition and kill the test binary.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGUSR2)
	defer signal.Stop(guard)

	signo := 0
	ev, err := c.NewSignalsEvent(&signo, 0, syscall.SIGUSR2)
	require.NoError(t, err)
	require.True(t, c.FreeEvent(ev, FreeAll))

	// After teardown the notifier is stopped; a late signal must not
	// reach the pending-signal cell.
	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGUSR2))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, signo)
}
