// Package api
// Author: momentics <momentics@gmail.com>
//
// OS-reported failure type shared by every socket operation.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// OSError is the only failure kind produced by the socket core. It carries
// the name of the failed primitive, the platform error number and the
// underlying error for message rendering.
type OSError struct {
	Op   string
	Code syscall.Errno
	Err  error
}

// NewOSError normalises err into an *OSError. An *OSError already present in
// the chain is returned unchanged so failures propagate verbatim.
func NewOSError(op string, err error) *OSError {
	var oe *OSError
	if errors.As(err, &oe) {
		return oe
	}
	e := &OSError{Op: op, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = errno
	}
	return e
}

// Error implements the error interface.
func (e *OSError) Error() string {
	if e.Op == "" {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message())
}

// Message returns the OS text for the failure.
func (e *OSError) Message() string {
	if e.Err == nil {
		return e.Code.Error()
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *OSError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the OS classifies the failure as transient.
func (e *OSError) Temporary() bool {
	return e.Code != 0 && e.Code.Temporary()
}

// Timeout reports whether the failure is a timeout.
func (e *OSError) Timeout() bool {
	return e.Code != 0 && e.Code.Timeout()
}
