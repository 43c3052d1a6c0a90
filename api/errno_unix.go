//go:build unix

// File: api/errno_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Host errno mapping for POSIX platforms.

package api

import (
	"errors"

	"golang.org/x/sys/unix"
)

// MapErrno converts a host error into the portable error domain. Structured
// errors pass through unchanged so codes are never double-wrapped.
func MapErrno(err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return WrapError(CodeEIO, "host error", err)
	}
	code := CodeEIO
	switch errno {
	case unix.EINTR:
		code = CodeEINTR
	case unix.EBADF:
		code = CodeEBADF
	case unix.EAGAIN, unix.EINPROGRESS:
		code = CodeEAGAIN
	case unix.ENOTSOCK:
		code = CodeENOTSOCK
	case unix.EINVAL:
		code = CodeEINVAL
	case unix.ETIMEDOUT:
		code = CodeETIMEDOUT
	case unix.ENOMEM:
		code = CodeENOMEM
	case unix.EPERM, unix.EACCES:
		code = CodeEPERM
	case unix.EPIPE:
		code = CodeEPIPE
	case unix.ENOSYS, unix.EOPNOTSUPP:
		code = CodeENOSYS
	}
	return WrapError(code, "host error", err)
}
