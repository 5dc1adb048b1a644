// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with Wrap methods to derive errors from package-level sentinels
// without resorting to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with Wrap methods.
//
// The main difference with github.com/pkg/errors is that we are wrapping
// errors from errors, not from text. A wrapped error keeps a reference to the
// sentinel it was derived from, so errors.Is(wrapped, sentinel) holds.
type Error struct {
	msg    string
	err    error
	origin *Error
}

// Error message, followed by the message of the wrapped error if any.
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error. The receiver is left unchanged.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.Error(), err: err, origin: e}
}

// WrapMessage wraps a formatted detail message.
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	for o := e; o != nil; o = o.origin {
		if o == t {
			return true
		}
	}
	return false
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.As)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
