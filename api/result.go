// Package api
// Author: momentics@gmail.com
//
// Generic result and error propagation for fallible socket operations.

package api

import (
	"syscall"
)

// None is the success payload of operations that produce no value.
type None struct{}

// Result holds the outcome of exactly one fallible operation: either a value
// or the OS failure that prevented it. The fields are unexported so a Result
// must be inspected through IsOK before its value is read.
type Result[T any] struct {
	value T
	err   *OSError
}

// OK wraps a success value.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Done is the success result of an operation without payload.
func Done() Result[None] {
	return Result[None]{}
}

// Fail captures the error reported by the OS for op.
// A nil err is a programming error.
func Fail[T any](op string, err error) Result[T] {
	if err == nil {
		panic("api: Fail called with nil error for " + op)
	}
	return Result[T]{err: NewOSError(op, err)}
}

// Forward re-types a failed result so that the caller can return it as is.
func Forward[U, T any](r Result[T]) Result[U] {
	if r.err == nil {
		panic("api: Forward called on a successful result")
	}
	return Result[U]{err: r.err}
}

// IsOK reports whether the operation succeeded.
func (r Result[T]) IsOK() bool {
	return r.err == nil
}

// Value returns the success value. It panics on a failed result.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic("api: Value called on failed result: " + r.err.Error())
	}
	return r.value
}

// Error returns the captured failure. It panics on a successful result.
func (r Result[T]) Error() *OSError {
	if r.err == nil {
		panic("api: Error called on successful result")
	}
	return r.err
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Code returns the OS error number of a failure, or 0 on success.
func (r Result[T]) Code() syscall.Errno {
	if r.err == nil {
		return 0
	}
	return r.err.Code
}

// Message returns the human-readable failure text, or "" on success.
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	return r.err.Message()
}

// Unwrap splits the result into Go's usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.Err()
}
