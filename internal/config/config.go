// File: internal/config/config.go
// Package config loads the library's diagnostics and policy settings from
// the environment and an optional YAML file.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	// EnvDebug sets the diagnostics verbosity (0..3).
	EnvDebug = "GOPTH_DEBUG"
	// EnvConfig names an optional YAML settings file.
	EnvConfig = "GOPTH_CONFIG"
)

// Config carries the tunable policies of the library.
type Config struct {
	// DebugLevel is the diagnostics verbosity (0 silent .. 3 calls).
	DebugLevel int
	// EagerReset controls whether fired waitable objects of one-shot kinds
	// are reset right after being observed by the multiplexer.
	EagerReset bool
	// CancelGrace is how long Cancel waits for a thread to honor its token
	// before giving up.
	CancelGrace time.Duration
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DebugLevel:  0,
		EagerReset:  true,
		CancelGrace: time.Second,
	}
}

// fileSettings is the YAML shape of the settings file. Fields are
// pointers (or parseable strings) so absence is distinguishable from the
// zero value when overlaying.
type fileSettings struct {
	DebugLevel  *int   `yaml:"debug_level"`
	EagerReset  *bool  `yaml:"eager_reset"`
	CancelGrace string `yaml:"cancel_grace"`
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file named by GOPTH_CONFIG (if any), overlaid by GOPTH_DEBUG.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var fs fileSettings
		if err := yaml.Unmarshal(data, &fs); err != nil {
			return nil, err
		}
		if fs.DebugLevel != nil {
			cfg.DebugLevel = *fs.DebugLevel
		}
		if fs.EagerReset != nil {
			cfg.EagerReset = *fs.EagerReset
		}
		if fs.CancelGrace != "" {
			d, err := time.ParseDuration(fs.CancelGrace)
			if err != nil {
				return nil, err
			}
			cfg.CancelGrace = d
		}
	}
	if s := os.Getenv(EnvDebug); s != "" {
		if lvl, err := strconv.Atoi(s); err == nil {
			cfg.DebugLevel = lvl
		}
	}
	if cfg.CancelGrace <= 0 {
		cfg.CancelGrace = time.Second
	}
	return cfg, nil
}
