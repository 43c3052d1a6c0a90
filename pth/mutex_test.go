// File: pth/mutex_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gopth/api"
)

func TestMutexMutualExclusion(t *testing.T) {
	c := newTestContext(t)

	m, err := c.NewMutex()
	require.NoError(t, err)

	const iters = 25
	shared := 0
	body := func(ctx context.Context, arg any) any {
		for i := 0; i < iters; i++ {
			if err := m.Acquire(false); err != nil {
				return err
			}
			// Deliberate read-sleep-write so interleaving without the mutex
			// would lose updates.
			v := shared
			_ = c.Usleep(200)
			shared = v + 1
			if err := m.Release(); err != nil {
				return err
			}
		}
		return nil
	}

	t1, err := c.Spawn(&Attr{Name: "m1", Joinable: true}, body, nil)
	require.NoError(t, err)
	t2, err := c.Spawn(&Attr{Name: "m2", Joinable: true}, body, nil)
	require.NoError(t, err)

	res, err := c.Join(t1)
	require.NoError(t, err)
	require.Nil(t, res)
	res, err = c.Join(t2)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, 2*iters, shared)
}

func TestMutexTryAcquire(t *testing.T) {
	c := newTestContext(t)

	m, err := c.NewMutex()
	require.NoError(t, err)
	require.NoError(t, m.Acquire(false))

	th, err := c.Spawn(&Attr{Name: "try", Joinable: true},
		func(ctx context.Context, arg any) any {
			return m.Acquire(true)
		}, nil)
	require.NoError(t, err)

	res, err := c.Join(th)
	require.NoError(t, err)
	assert.Equal(t, api.CodeEAGAIN, api.CodeOf(res.(error)), "held mutex must fail a try-acquire")

	require.NoError(t, m.Release())
	require.NoError(t, m.Acquire(true), "released mutex must succeed a try-acquire")
	require.NoError(t, m.Release())
}

func TestMutexReleaseUnheld(t *testing.T) {
	c := newTestContext(t)

	m, err := c.NewMutex()
	require.NoError(t, err)
	assert.Equal(t, api.CodeEPERM, api.CodeOf(m.Release()))
}

func TestMutexDestroy(t *testing.T) {
	c := newTestContext(t)

	m, err := c.NewMutex()
	require.NoError(t, err)

	require.NoError(t, m.Acquire(false))
	assert.Equal(t, api.CodeEPERM, api.CodeOf(m.Destroy()), "a held mutex cannot be destroyed")
	require.NoError(t, m.Release())

	require.NoError(t, m.Destroy())
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(m.Acquire(false)), "a destroyed mutex is unusable")
}

func TestRWLockSharedReaders(t *testing.T) {
	c := newTestContext(t)

	l, err := c.NewRWLock()
	require.NoError(t, err)
	require.NoError(t, l.Acquire(RWRead, false))

	th, err := c.Spawn(&Attr{Name: "rw", Joinable: true},
		func(ctx context.Context, arg any) any {
			// A second reader gets in while the first still holds.
			if err := l.Acquire(RWRead, true); err != nil {
				return err
			}
			if err := l.Release(RWRead); err != nil {
				return err
			}
			// A writer does not.
			if err := l.Acquire(RWWrite, true); api.CodeOf(err) != api.CodeEAGAIN {
				return api.NewError(api.CodeEIO, "writer slipped past live readers")
			}
			return nil
		}, nil)
	require.NoError(t, err)

	res, err := c.Join(th)
	require.NoError(t, err)
	require.Nil(t, res)

	require.NoError(t, l.Release(RWRead))
	require.NoError(t, l.Acquire(RWWrite, true), "free lock must admit a writer")
	require.NoError(t, l.Release(RWWrite))
}

func TestRWLockReleaseUnheld(t *testing.T) {
	c := newTestContext(t)

	l, err := c.NewRWLock()
	require.NoError(t, err)
	assert.Equal(t, api.CodeEPERM, api.CodeOf(l.Release(RWRead)))
	assert.Equal(t, api.CodeEPERM, api.CodeOf(l.Release(RWWrite)))
	assert.Equal(t, api.CodeEINVAL, api.CodeOf(l.Acquire(RWOp(9), false)))
}
