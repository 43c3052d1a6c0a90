// File: pth/mutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex and read-write lock primitives. Thin state machines around the
// host objects; blocking acquires release the gate so other logical
// threads keep running.

package pth

import (
	"sync"

	"github.com/momentics/gopth/api"
)

// Mutex wraps one host mutual-exclusion object. States are free / held; no
// recursive acquisition is promised.
type Mutex struct {
	c  *Context
	mu sync.Mutex

	stateMu   sync.Mutex
	held      bool
	destroyed bool
}

// NewMutex allocates a mutex bound to the context.
func (c *Context) NewMutex() (*Mutex, error) {
	c.ensureInit()
	return &Mutex{c: c}, nil
}

// Acquire obtains ownership. With tryOnly set it fails immediately with a
// temporarily-unavailable error instead of blocking.
func (m *Mutex) Acquire(tryOnly bool) error {
	m.c.ensureInit()
	m.c.gate.yield("mutex_acquire")
	defer m.c.gate.resume("mutex_acquire")

	if err := m.alive(); err != nil {
		return err
	}
	if tryOnly {
		if !m.mu.TryLock() {
			return api.NewError(api.CodeEAGAIN, "mutex is held")
		}
	} else {
		m.mu.Lock()
	}
	m.stateMu.Lock()
	m.held = true
	m.stateMu.Unlock()
	return nil
}

// Release drops ownership. Releasing a mutex that is not held fails.
func (m *Mutex) Release() error {
	m.c.ensureInit()
	m.c.gate.yield("mutex_release")
	defer m.c.gate.resume("mutex_release")

	if err := m.alive(); err != nil {
		return err
	}
	m.stateMu.Lock()
	if !m.held {
		m.stateMu.Unlock()
		return api.NewError(api.CodeEPERM, "mutex is not held")
	}
	m.held = false
	m.stateMu.Unlock()
	m.mu.Unlock()
	return nil
}

// Destroy releases the host object. Destroying a held mutex fails.
func (m *Mutex) Destroy() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.held {
		return api.NewError(api.CodeEPERM, "mutex is held")
	}
	m.destroyed = true
	return nil
}

func (m *Mutex) alive() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.destroyed {
		return api.NewError(api.CodeEINVAL, "mutex is destroyed")
	}
	return nil
}

// RWOp selects the acquisition mode of a read-write lock.
type RWOp int

const (
	// RWRead acquires shared read access.
	RWRead RWOp = iota
	// RWWrite acquires exclusive write access.
	RWWrite
)

// RWLock is a real multiple-reader/single-writer lock. The historical
// implementation aliased it to the mutex; this one delivers shared reads.
type RWLock struct {
	c  *Context
	rw sync.RWMutex

	stateMu sync.Mutex
	readers int
	writer  bool
}

// NewRWLock allocates a read-write lock bound to the context.
func (c *Context) NewRWLock() (*RWLock, error) {
	c.ensureInit()
	return &RWLock{c: c}, nil
}

// Acquire obtains the lock in the given mode. With tryOnly set it fails
// immediately instead of blocking.
func (l *RWLock) Acquire(op RWOp, tryOnly bool) error {
	l.c.ensureInit()
	l.c.gate.yield("rwlock_acquire")
	defer l.c.gate.resume("rwlock_acquire")

	switch op {
	case RWRead:
		if tryOnly {
			if !l.rw.TryRLock() {
				return api.NewError(api.CodeEAGAIN, "rwlock is write-held")
			}
		} else {
			l.rw.RLock()
		}
		l.stateMu.Lock()
		l.readers++
		l.stateMu.Unlock()
	case RWWrite:
		if tryOnly {
			if !l.rw.TryLock() {
				return api.NewError(api.CodeEAGAIN, "rwlock is held")
			}
		} else {
			l.rw.Lock()
		}
		l.stateMu.Lock()
		l.writer = true
		l.stateMu.Unlock()
	default:
		return api.NewError(api.CodeEINVAL, "unknown rwlock operation")
	}
	return nil
}

// Release drops the lock in the given mode. Releasing an unheld mode
// fails.
func (l *RWLock) Release(op RWOp) error {
	l.c.ensureInit()
	l.c.gate.yield("rwlock_release")
	defer l.c.gate.resume("rwlock_release")

	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	switch op {
	case RWRead:
		if l.readers == 0 {
			return api.NewError(api.CodeEPERM, "rwlock has no readers")
		}
		l.readers--
		l.rw.RUnlock()
	case RWWrite:
		if !l.writer {
			return api.NewError(api.CodeEPERM, "rwlock is not write-held")
		}
		l.writer = false
		l.rw.Unlock()
	default:
		return api.NewError(api.CodeEINVAL, "unknown rwlock operation")
	}
	return nil
}
