// File: api/backend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract for the pipe/file I/O backend collaborator. The readiness
// classifier consults the backend first: a descriptor the backend knows is
// waited on through the backend's own reader/writer signals instead of a
// per-call socket watcher.

package api

// IOBackend supplies readability/writability signals and data transfer for
// descriptors that are emulated in-process rather than backed by the host.
type IOBackend interface {
	// ReaderSignal returns the waitable signaled while fd has data to read,
	// or false if the backend does not own fd's read side.
	ReaderSignal(fd int) (Waitable, bool)

	// WriterSignal returns the waitable signaled while fd can accept more
	// data, or false if the backend does not own fd's write side.
	WriterSignal(fd int) (Waitable, bool)

	// Read transfers up to len(p) bytes out of fd. Blocks while the pipe is
	// empty and the peer is still open.
	Read(fd int, p []byte) (int, error)

	// Write transfers up to len(p) bytes into fd. Blocks while the pipe is
	// full and the peer is still open.
	Write(fd int, p []byte) (int, error)
}
