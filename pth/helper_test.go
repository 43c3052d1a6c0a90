// File: pth/helper_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/gopth/internal/config"
)

// newTestContext builds an initialized context with deterministic settings.
// The test goroutine holds the gate on return, the same way any logical
// thread does between library calls.
func newTestContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	cfg := config.Default()
	c := New(append([]Option{WithConfig(cfg)}, opts...)...)
	require.NoError(t, c.Init())
	t.Cleanup(func() { _ = c.Shutdown() })
	return c
}

// closedChan returns an already-signaled channel for handle events.
func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
