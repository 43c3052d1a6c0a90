// File: internal/trace/trace.go
// Package trace is the verbosity-gated diagnostics sink. It is consulted by
// every component but never required for correctness.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package trace

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels, matching the library's historical debug scale.
const (
	LevelSilent = 0
	LevelError  = 1
	LevelInfo   = 2
	LevelCalls  = 3
)

// Tracer writes gated diagnostics through a structured logger.
type Tracer struct {
	level int
	log   *zap.SugaredLogger
}

// New builds a tracer writing to stderr at the given verbosity level.
func New(level int) *Tracer {
	if level <= LevelSilent {
		return Nop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "ts"
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	log := zap.New(core).Named("gopth").Sugar()
	return &Tracer{level: level, log: log}
}

// Nop returns a tracer that discards everything.
func Nop() *Tracer {
	return &Tracer{level: LevelSilent, log: zap.NewNop().Sugar()}
}

// Level returns the configured verbosity.
func (t *Tracer) Level() int { return t.level }

// Errorf logs failures of host calls and classification.
func (t *Tracer) Errorf(format string, args ...any) {
	if t.level >= LevelError {
		t.log.Errorf(format, args...)
	}
}

// Infof logs event and object lifecycle details.
func (t *Tracer) Infof(format string, args ...any) {
	if t.level >= LevelInfo {
		t.log.Infof(format, args...)
	}
}

// Callsf logs gate transitions per public operation.
func (t *Tracer) Callsf(format string, args ...any) {
	if t.level >= LevelCalls {
		t.log.Debugf(format, args...)
	}
}
