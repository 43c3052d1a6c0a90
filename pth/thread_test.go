// File: pth/thread_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/internal/config"
)

func TestSpawnValidation(t *testing.T) {
	c := newTestContext(t)

	_, err := c.Spawn(nil, func(ctx context.Context, arg any) any { return nil }, nil)
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(err))

	_, err = c.Spawn(&Attr{}, nil, nil)
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(err))
}

func TestSpawnJoinDeliversResult(t *testing.T) {
	c := newTestContext(t)

	th, err := c.Spawn(&Attr{Name: "worker", Joinable: true},
		func(ctx context.Context, arg any) any {
			return arg.(int) * 2
		}, 21)
	require.NoError(t, err)
	assert.Equal(t, "worker", th.Name())

	res, err := c.Join(th)
	require.NoError(t, err)
	assert.Equal(t, 42, res)
	assert.True(t, th.Exited())
	assert.Equal(t, int64(0), c.Threads())
}

func TestJoinRejectsDetachedThread(t *testing.T) {
	c := newTestContext(t)

	th, err := c.Spawn(&Attr{Name: "detached"},
		func(ctx context.Context, arg any) any { return nil }, nil)
	require.NoError(t, err)

	_, err = c.Join(th)
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(err))

	_, err = c.Join(nil)
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(err))
}

func TestThreadCounterReturnsToZero(t *testing.T) {
	c := newTestContext(t)

	const n = 5
	threads := make([]*Thread, 0, n)
	for i := 0; i < n; i++ {
		th, err := c.Spawn(&Attr{Name: "counted", Joinable: true},
			func(ctx context.Context, arg any) any {
				_ = c.Usleep(5 * 1000)
				return nil
			}, nil)
		require.NoError(t, err)
		threads = append(threads, th)
	}
	for _, th := range threads {
		_, err := c.Join(th)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(0), c.Threads())
}

func TestSelfIdentity(t *testing.T) {
	c := newTestContext(t)

	th, err := c.Spawn(&Attr{Name: "self", Joinable: true},
		func(ctx context.Context, arg any) any {
			return Self(ctx)
		}, nil)
	require.NoError(t, err)

	res, err := c.Join(th)
	require.NoError(t, err)
	assert.Same(t, th, res, "Self must return the spawn handle")

	assert.Nil(t, Self(context.Background()))
}

func TestCancelCooperativeThread(t *testing.T) {
	c := newTestContext(t)

	th, err := c.Spawn(&Attr{Name: "cancelable", Joinable: true},
		func(ctx context.Context, arg any) any {
			for ctx.Err() == nil {
				_ = c.Usleep(2 * 1000)
			}
			return nil
		}, nil)
	require.NoError(t, err)

	assert.True(t, c.Cancel(th), "a token-honoring thread exits within the grace period")
	assert.True(t, th.Exited())
	assert.Equal(t, int64(0), c.Threads())
}

func TestCancelGraceExpiresOnStubbornThread(t *testing.T) {
	cfg := config.Default()
	cfg.CancelGrace = 20 * time.Millisecond
	c := newTestContext(t, WithConfig(cfg))

	th, err := c.Spawn(&Attr{Name: "stubborn", Joinable: true},
		func(ctx context.Context, arg any) any {
			// Deliberately ignores its token for a while.
			for i := 0; i < 10; i++ {
				_ = c.Usleep(15 * 1000)
			}
			return nil
		}, nil)
	require.NoError(t, err)

	assert.False(t, c.Cancel(th), "grace period expires before the body returns")

	_, err = c.Join(th)
	require.NoError(t, err)
	assert.True(t, th.Exited())
}

func TestAbortDoesNotWait(t *testing.T) {
	c := newTestContext(t)

	th, err := c.Spawn(&Attr{Name: "aborted", Joinable: true},
		func(ctx context.Context, arg any) any {
			for ctx.Err() == nil {
				_ = c.Usleep(2 * 1000)
			}
			return nil
		}, nil)
	require.NoError(t, err)

	// The token is canceled but Abort never blocks, so the body is almost
	// certainly still inside its loop.
	c.Abort(th)

	_, err = c.Join(th)
	require.NoError(t, err)
	assert.True(t, th.Exited())

	assert.False(t, c.Abort(nil))
	assert.False(t, c.Cancel(nil))
}
