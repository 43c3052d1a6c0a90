// File: internal/config/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv(EnvDebug, "")
	t.Setenv(EnvConfig, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.DebugLevel)
	assert.True(t, cfg.EagerReset)
	assert.Equal(t, time.Second, cfg.CancelGrace)
}

func TestYAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"debug_level: 2\neager_reset: false\ncancel_grace: 250ms\n"), 0o644))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDebug, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.DebugLevel)
	assert.False(t, cfg.EagerReset)
	assert.Equal(t, 250*time.Millisecond, cfg.CancelGrace)
}

func TestEnvDebugWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug_level: 1\n"), 0o644))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDebug, "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DebugLevel)
}

func TestMissingFileFails(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestNonPositiveGraceFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cancel_grace: 0s\n"), 0o644))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDebug, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.CancelGrace)
}
