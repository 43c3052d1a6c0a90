// File: waitable/event_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package waitable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSetAndReset(t *testing.T) {
	ev := NewEvent()
	assert.False(t, ev.Signaled())

	ev.Set()
	assert.True(t, ev.Signaled())

	// Signaled is a probe, not a consumer.
	assert.True(t, ev.Signaled())

	ev.Reset()
	assert.False(t, ev.Signaled())
}

func TestEventReadyChannelTracksState(t *testing.T) {
	ev := NewEvent()

	select {
	case <-ev.Ready():
		t.Fatal("ready channel closed before Set")
	default:
	}

	ev.Set()
	select {
	case <-ev.Ready():
	default:
		t.Fatal("ready channel not closed after Set")
	}

	// Reset replaces the channel; the new one is open again.
	ev.Reset()
	select {
	case <-ev.Ready():
		t.Fatal("ready channel closed after Reset")
	default:
	}
}

func TestEventSetIdempotent(t *testing.T) {
	ev := NewEvent()
	ev.Set()
	ev.Set() // must not panic on double close
	assert.True(t, ev.Signaled())
}

func TestEventClosedIsInert(t *testing.T) {
	ev := NewEvent()
	require.NoError(t, ev.Close())
	ev.Set()
	assert.False(t, ev.Signaled())
	ev.Reset()
	assert.False(t, ev.Signaled())
}

func TestHandleFollowsCallerChannel(t *testing.T) {
	ch := make(chan struct{})
	h := NewHandle(ch)
	assert.False(t, h.Signaled())

	close(ch)
	assert.True(t, h.Signaled())

	// The caller owns the channel: Reset and Close change nothing.
	h.Reset()
	assert.True(t, h.Signaled())
	require.NoError(t, h.Close())
	assert.True(t, h.Signaled())
}
