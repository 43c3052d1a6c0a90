// File: adapters/pipeio/backend.go
// Package pipeio is an in-process pipe emulation backend. It hands the
// readiness classifier reader/writer signals for descriptors it owns, so
// pipe descriptors participate in multiplexed waits without any host
// object behind them.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipeio

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

// DefaultLimit is the per-pipe buffer capacity in bytes.
const DefaultLimit = 64 * 1024

// Writes to a pipe whose reader end has not connected yet retry a bounded
// number of times before reporting the pipe unusable.
const (
	connectRetries  = 16
	connectInterval = time.Millisecond
)

// Descriptors handed out by the backend start well above any plausible
// host descriptor so the classifier never confuses the two ranges.
const fdBase = 1 << 20

// Backend implements api.IOBackend over in-process pipes.
type Backend struct {
	mu    sync.Mutex
	ends  map[int]*end
	nextq int
}

type end struct {
	p    *pipe
	read bool
}

// pipe is one unidirectional buffered channel between a writer descriptor
// and a reader descriptor.
type pipe struct {
	mu    sync.Mutex
	head  []byte       // partially consumed front chunk
	q     *queue.Queue // of []byte chunks behind head
	size  int
	limit int

	rd, wr *waitable.Event

	readerOpen bool
	writerOpen bool
	connected  bool // reader end has been attached
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{ends: make(map[int]*end), nextq: fdBase}
}

func (b *Backend) allocFd(e *end) int {
	fd := b.nextq
	b.nextq++
	b.ends[fd] = e
	return fd
}

func newPipe(limit int, connected bool) *pipe {
	if limit <= 0 {
		limit = DefaultLimit
	}
	p := &pipe{
		q:          queue.New(),
		limit:      limit,
		rd:         waitable.NewEvent(),
		wr:         waitable.NewEvent(),
		readerOpen: connected,
		writerOpen: true,
		connected:  connected,
	}
	// A fresh pipe always has space.
	p.wr.Set()
	return p
}

// NewPipe creates a connected pipe and returns its reader and writer
// descriptors.
func (b *Backend) NewPipe() (rfd, wfd int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := newPipe(DefaultLimit, true)
	rfd = b.allocFd(&end{p: p, read: true})
	wfd = b.allocFd(&end{p: p, read: false})
	return rfd, wfd
}

// NewPendingPipe creates a pipe whose reader end does not exist yet,
// mirroring the server side of a named pipe waiting for its peer. Writes
// retry briefly while the reader is missing.
func (b *Backend) NewPendingPipe() (wfd int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := newPipe(DefaultLimit, false)
	return b.allocFd(&end{p: p, read: false})
}

// AttachReader connects the reader end of a pending pipe and returns its
// descriptor.
func (b *Backend) AttachReader(wfd int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.ends[wfd]
	if !ok || e.read {
		return -1, api.NewError(api.CodeEBADF, "not a writer descriptor").WithContext("fd", wfd)
	}
	e.p.mu.Lock()
	if e.p.connected {
		e.p.mu.Unlock()
		return -1, api.NewError(api.CodeEINVAL, "pipe already has a reader")
	}
	e.p.readerOpen = true
	e.p.connected = true
	e.p.update()
	e.p.mu.Unlock()
	return b.allocFd(&end{p: e.p, read: true}), nil
}

func (b *Backend) lookup(fd int, read bool) (*pipe, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.ends[fd]
	if !ok || e.read != read {
		return nil, false
	}
	return e.p, true
}

// ReaderSignal returns the waitable signaled while fd has buffered data or
// its writer end is gone.
func (b *Backend) ReaderSignal(fd int) (api.Waitable, bool) {
	p, ok := b.lookup(fd, true)
	if !ok {
		return nil, false
	}
	return p.rd, true
}

// WriterSignal returns the waitable signaled while fd has buffer space or
// its reader end is gone.
func (b *Backend) WriterSignal(fd int) (api.Waitable, bool) {
	p, ok := b.lookup(fd, false)
	if !ok {
		return nil, false
	}
	return p.wr, true
}

// update refreshes both readiness signals from the pipe state. Called with
// the pipe locked.
func (p *pipe) update() {
	if p.size > 0 || !p.writerOpen {
		p.rd.Set()
	} else {
		p.rd.Reset()
	}
	if p.size < p.limit || !p.readerOpen {
		p.wr.Set()
	} else {
		p.wr.Reset()
	}
}

// Read transfers up to len(p) buffered bytes out of fd. It blocks while
// the pipe is empty and the writer is still open; a drained pipe with a
// closed writer reports 0 bytes.
func (b *Backend) Read(fd int, out []byte) (int, error) {
	p, ok := b.lookup(fd, true)
	if !ok {
		return -1, api.NewError(api.CodeEBADF, "not a reader descriptor").WithContext("fd", fd)
	}
	for {
		p.mu.Lock()
		if p.size > 0 {
			n := p.consume(out)
			p.update()
			p.mu.Unlock()
			return n, nil
		}
		if !p.writerOpen {
			p.mu.Unlock()
			return 0, nil
		}
		ready := p.rd.Ready()
		p.mu.Unlock()
		<-ready
	}
}

// consume copies buffered bytes into out. Called with the pipe locked.
func (p *pipe) consume(out []byte) int {
	total := 0
	for total < len(out) && p.size > 0 {
		if len(p.head) == 0 {
			p.head = p.q.Remove().([]byte)
		}
		n := copy(out[total:], p.head)
		p.head = p.head[n:]
		p.size -= n
		total += n
	}
	return total
}

// Write transfers up to len(p) bytes into fd. It blocks while the pipe is
// full and the reader is open, fails with a broken-pipe error once the
// reader is gone, and retries briefly while a pending pipe's reader has
// not connected yet.
func (b *Backend) Write(fd int, in []byte) (int, error) {
	p, ok := b.lookup(fd, false)
	if !ok {
		return -1, api.NewError(api.CodeEBADF, "not a writer descriptor").WithContext("fd", fd)
	}
	if len(in) == 0 {
		return 0, nil
	}
	retries := 0
	for {
		p.mu.Lock()
		if p.connected && !p.readerOpen {
			p.mu.Unlock()
			return -1, api.NewError(api.CodeEPIPE, "pipe reader is closed").WithContext("fd", fd)
		}
		if !p.connected {
			p.mu.Unlock()
			retries++
			if retries > connectRetries {
				return -1, api.NewError(api.CodeEAGAIN, "pipe reader never connected").WithContext("fd", fd)
			}
			time.Sleep(connectInterval)
			continue
		}
		if space := p.limit - p.size; space > 0 {
			n := len(in)
			if n > space {
				n = space
			}
			chunk := make([]byte, n)
			copy(chunk, in[:n])
			p.q.Add(chunk)
			p.size += n
			p.update()
			p.mu.Unlock()
			return n, nil
		}
		ready := p.wr.Ready()
		p.mu.Unlock()
		<-ready
	}
}

// CloseFd closes one end of a pipe and wakes any blocked peer.
func (b *Backend) CloseFd(fd int) error {
	b.mu.Lock()
	e, ok := b.ends[fd]
	if ok {
		delete(b.ends, fd)
	}
	b.mu.Unlock()
	if !ok {
		return api.NewError(api.CodeEBADF, "unknown descriptor").WithContext("fd", fd)
	}
	e.p.mu.Lock()
	if e.read {
		e.p.readerOpen = false
	} else {
		e.p.writerOpen = false
	}
	e.p.update()
	e.p.mu.Unlock()
	return nil
}
