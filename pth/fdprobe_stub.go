//go:build !unix

// File: pth/fdprobe_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub descriptor operations for hosts without a POSIX poll surface. Backend
// descriptors keep working through the I/O backend; host descriptors report
// an unsupported condition, mirroring the reactor stubs used elsewhere.

package pth

import (
	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

var errNoHostFds = api.NewError(api.CodeENOSYS, "host descriptor operations not supported on this platform")

func isSocket(fd int) (bool, error) { return false, errNoHostFds }

type fdInterest struct {
	fd     int
	read   bool
	write  bool
	except bool
}

func watchFDSet(interests []fdInterest, target *waitable.Event) (func(), error) {
	return nil, errNoHostFds
}

func probeFD(in fdInterest) (read, write, except bool, err error) {
	return false, false, false, errNoHostFds
}

func sysRead(fd int, p []byte) (int, error)  { return -1, errNoHostFds }
func sysWrite(fd int, p []byte) (int, error) { return -1, errNoHostFds }
func sysAccept(fd int) (int, error)          { return -1, errNoHostFds }
func sysConnect(fd int, addr any) error      { return errNoHostFds }
func sysSocketError(fd int) error            { return errNoHostFds }

func setFdMode(fd int, nonblock bool) (bool, error) { return false, errNoHostFds }

func errWouldBlock(err error) bool { return false }
