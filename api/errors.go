// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable error domain. Every public entry point that can fail reports an
// error from this single POSIX-style code set, regardless of which host
// subsystem produced the failure.

package api

import (
	"errors"
	"fmt"
)

// Code is a portable POSIX-style error code. Most codes are raised by the
// library itself; CodeETIMEDOUT and CodeENOMEM only ever arrive through
// MapErrno when the host reports the matching errno.
type Code int

const (
	CodeOK Code = iota
	CodeEINTR
	CodeEBADF
	CodeEAGAIN
	CodeENOTSOCK
	CodeEINVAL
	CodeETIMEDOUT
	CodeENOMEM
	CodeEPERM
	CodeEPIPE
	CodeENOSYS
	CodeEIO
)

var codeNames = map[Code]string{
	CodeOK:        "ok",
	CodeEINTR:     "interrupted",
	CodeEBADF:     "bad descriptor",
	CodeEAGAIN:    "resource temporarily unavailable",
	CodeENOTSOCK:  "not a socket",
	CodeEINVAL:    "invalid argument",
	CodeETIMEDOUT: "timed out",
	CodeENOMEM:    "out of memory",
	CodeEPERM:     "operation not permitted",
	CodeEPIPE:     "broken pipe",
	CodeENOSYS:    "not supported on this host",
	CodeEIO:       "i/o error",
}

// String returns the code's short description.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is a structured error with a portable code and optional context.
type Error struct {
	Code    Code
	Message string
	Context map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the host error, if any.
func (e *Error) Unwrap() error { return e.cause }

// NewError creates a structured error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a structured error around a host error.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithContext attaches context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the portable code from an error, CodeEIO for foreign
// errors and CodeOK for nil.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeEIO
}
