// Package fake
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the backend interfaces.

package fake

import (
	"sync"

	"github.com/momentics/gopth/api"
)

// Backend is a fake implementation of api.IOBackend for testing. Each
// registered descriptor carries an independent reader and writer signal
// plus canned read data and a write sink.
type Backend struct {
	mu  sync.Mutex
	fds map[int]*fakeFd
}

type fakeFd struct {
	reader *Waitable
	writer *Waitable

	readData []byte
	readErr  error
	writeErr error
	written  []byte
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	return &Backend{fds: make(map[int]*fakeFd)}
}

// Register makes the backend own fd and returns its reader and writer
// signals for the test to drive.
func (b *Backend) Register(fd int) (reader, writer *Waitable) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := &fakeFd{reader: NewWaitable(), writer: NewWaitable()}
	b.fds[fd] = f
	return f.reader, f.writer
}

// SetReadData configures the bytes the next Read on fd will deliver.
func (b *Backend) SetReadData(fd int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fds[fd]; ok {
		f.readData = append([]byte(nil), data...)
	}
}

// SetReadError configures Read on fd to fail.
func (b *Backend) SetReadError(fd int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fds[fd]; ok {
		f.readErr = err
	}
}

// SetWriteError configures Write on fd to fail.
func (b *Backend) SetWriteError(fd int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fds[fd]; ok {
		f.writeErr = err
	}
}

// Written returns everything written to fd so far.
func (b *Backend) Written(fd int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.fds[fd]; ok {
		return append([]byte(nil), f.written...)
	}
	return nil
}

// ReaderSignal implements api.IOBackend.
func (b *Backend) ReaderSignal(fd int) (api.Waitable, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.fds[fd]
	if !ok {
		return nil, false
	}
	return f.reader, true
}

// WriterSignal implements api.IOBackend.
func (b *Backend) WriterSignal(fd int) (api.Waitable, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.fds[fd]
	if !ok {
		return nil, false
	}
	return f.writer, true
}

// Read implements api.IOBackend. It drains the canned data.
func (b *Backend) Read(fd int, p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.fds[fd]
	if !ok {
		return -1, api.NewError(api.CodeEBADF, "unknown fake descriptor").WithContext("fd", fd)
	}
	if f.readErr != nil {
		return -1, f.readErr
	}
	n := copy(p, f.readData)
	f.readData = f.readData[n:]
	if len(f.readData) == 0 {
		f.reader.Reset()
	}
	return n, nil
}

// Write implements api.IOBackend. It appends to the write sink.
func (b *Backend) Write(fd int, p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.fds[fd]
	if !ok {
		return -1, api.NewError(api.CodeEBADF, "unknown fake descriptor").WithContext("fd", fd)
	}
	if f.writeErr != nil {
		return -1, f.writeErr
	}
	f.written = append(f.written, p...)
	return len(p), nil
}
