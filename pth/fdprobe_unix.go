//go:build unix

// File: pth/fdprobe_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Host descriptor operations for POSIX platforms: file-type probing,
// per-call readiness watchers and non-blocking readiness probes.

package pth

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/gopth/api"
	"github.com/momentics/gopth/waitable"
)

// isSocket probes the descriptor's file-type metadata. The probe is a pure
// metadata read, deliberately not a "try and see" on a blocking call, which
// could deadlock on a dead peer.
func isSocket(fd int) (bool, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false, api.MapErrno(err)
	}
	return st.Mode&unix.S_IFMT == unix.S_IFSOCK, nil
}

// fdInterest names one descriptor and the readiness directions of interest.
type fdInterest struct {
	fd     int
	read   bool
	write  bool
	except bool
}

func (i fdInterest) pollEvents() int16 {
	var ev int16
	if i.read {
		ev |= unix.POLLIN
	}
	if i.write {
		ev |= unix.POLLOUT
	}
	if i.except {
		ev |= unix.POLLPRI
	}
	return ev
}

// watchFDSet arms a per-call readiness watcher over the given interests.
// The watcher sets target as soon as any interest (or an error/hangup
// condition) is ready, then exits. The returned dispose function interrupts
// the watcher through a wake pipe and reclaims both pipe ends; it must be
// called exactly once at the end of the multiplex cycle.
func watchFDSet(interests []fdInterest, target *waitable.Event) (func(), error) {
	var pipe [2]int
	if err := unix.Pipe(pipe[:]); err != nil {
		return nil, api.MapErrno(err)
	}
	wakeR, wakeW := pipe[0], pipe[1]

	pollfds := make([]unix.PollFd, 0, len(interests)+1)
	for _, in := range interests {
		pollfds = append(pollfds, unix.PollFd{Fd: int32(in.fd), Events: in.pollEvents()})
	}
	pollfds = append(pollfds, unix.PollFd{Fd: int32(wakeR), Events: unix.POLLIN})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, err := unix.Poll(pollfds, -1)
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				return
			}
			wake := &pollfds[len(pollfds)-1]
			if wake.Revents != 0 {
				return
			}
			for i := range pollfds[:len(pollfds)-1] {
				p := &pollfds[i]
				if p.Revents&(p.Events|unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
					target.Set()
					return
				}
			}
		}
	}()

	dispose := func() {
		_, _ = unix.Write(wakeW, []byte{0})
		<-done
		_ = unix.Close(wakeR)
		_ = unix.Close(wakeW)
	}
	return dispose, nil
}

// probeFD tests current readiness without blocking.
func probeFD(in fdInterest) (read, write, except bool, err error) {
	pollfds := []unix.PollFd{{Fd: int32(in.fd), Events: in.pollEvents()}}
	if _, perr := unix.Poll(pollfds, 0); perr != nil {
		return false, false, false, api.MapErrno(perr)
	}
	re := pollfds[0].Revents
	read = in.read && re&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0
	write = in.write && re&unix.POLLOUT != 0
	except = in.except && re&(unix.POLLPRI|unix.POLLERR|unix.POLLHUP) != 0
	return read, write, except, nil
}

// sysRead reads from a host descriptor.
func sysRead(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err != nil {
		return -1, api.MapErrno(err)
	}
	return n, nil
}

// sysWrite writes to a host descriptor.
func sysWrite(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err != nil {
		return -1, api.MapErrno(err)
	}
	return n, nil
}

// sysAccept accepts one connection on a listening socket.
func sysAccept(fd int) (int, error) {
	nfd, _, err := unix.Accept(fd)
	if err != nil {
		return -1, api.MapErrno(err)
	}
	return nfd, nil
}

// sysConnect starts a connect. addr must be a unix.Sockaddr.
func sysConnect(fd int, addr any) error {
	sa, ok := addr.(unix.Sockaddr)
	if !ok {
		return api.NewError(api.CodeEINVAL, "connect address must be a unix.Sockaddr")
	}
	if err := unix.Connect(fd, sa); err != nil {
		return api.MapErrno(err)
	}
	return nil
}

// sysSocketError drains a socket's pending asynchronous error, used to
// resolve the outcome of a non-blocking connect.
func sysSocketError(fd int) error {
	v, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return api.MapErrno(err)
	}
	if v != 0 {
		return api.MapErrno(unix.Errno(v))
	}
	return nil
}

// setFdMode switches a descriptor between blocking and non-blocking mode
// and returns the previous mode so callers can restore it.
func setFdMode(fd int, nonblock bool) (prevNonblock bool, err error) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false, api.MapErrno(err)
	}
	prevNonblock = flags&unix.O_NONBLOCK != 0
	if prevNonblock == nonblock {
		return prevNonblock, nil
	}
	if nonblock {
		flags |= unix.O_NONBLOCK
	} else {
		flags &^= unix.O_NONBLOCK
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags); err != nil {
		return prevNonblock, api.MapErrno(err)
	}
	return prevNonblock, nil
}

// errWouldBlock reports whether err is the non-blocking "try again later"
// condition.
func errWouldBlock(err error) bool {
	switch api.CodeOf(err) {
	case api.CodeEAGAIN, api.CodeEINTR:
		return true
	}
	return false
}
