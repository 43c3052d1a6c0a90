//go:build !unix

// File: api/errno_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback errno mapping for hosts without a POSIX errno surface.

package api

import "errors"

// MapErrno converts a host error into the portable error domain.
func MapErrno(err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return WrapError(CodeEIO, "host error", err)
}
