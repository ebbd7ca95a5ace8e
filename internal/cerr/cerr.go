// Package cerr provides the unified error type used across all of cassgate.
//
// Every subsystem (driver binding, runtime, futures, result projection)
// wraps its native errors into *cerr.Error before returning them. The
// boundary layer flattens an *Error into the stable (code, message) pair
// the caller retrieves through the future accessors; it never lets a Go
// error value — or a panic — cross the boundary.
//
// Usage:
//
//	// In the driver binding — wrap native errors:
//	return cerr.Wrap(cerr.ErrLibUnableToConnect, "no contact points reachable", gocqlErr)
//
//	// At the boundary — flatten to the numeric contract:
//	code, msg := cerr.Flatten(err)
package cerr

import (
	"errors"
	"fmt"
)

// Error is the single error type produced by all cassgate subsystems.
// Code is the stable numeric contract; Message is the human-readable text
// returned by the message-retrieval call; Cause preserves the native
// driver error for logging only and is never exposed across the boundary.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.Source(), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code.Source(), e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given code and message and no cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given code, message, and underlying cause.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// --- Boundary helpers ---

// CodeOf extracts the Code from any error in the chain.
// A nil error is Ok; an error with no *Error in its chain is an
// internal fault by definition.
func CodeOf(err error) Code {
	if err == nil {
		return Ok
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrLibInternalError
}

// Flatten reduces any error to the (code, message) pair stored on a
// future and handed to the caller. The message falls back to the code's
// fixed description when the error carries no text of its own.
func Flatten(err error) (Code, string) {
	if err == nil {
		return Ok, ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Code, e.Message
		}
		return e.Code, e.Code.Desc()
	}
	return ErrLibInternalError, err.Error()
}

// --- Predicates ---

// IsTimeout reports whether err is a client- or server-side timeout.
func IsTimeout(err error) bool {
	switch CodeOf(err) {
	case ErrLibRequestTimedOut, ErrServerReadTimeout, ErrServerWriteTimeout:
		return true
	}
	return false
}

// IsServerError reports whether err was reported by the server rather
// than produced inside the library.
func IsServerError(err error) bool {
	return CodeOf(err).Source() == SourceServer
}

// IsBadParams reports whether err is a synchronous argument-validation
// failure (null handle, out-of-range index, wrong handle kind).
func IsBadParams(err error) bool {
	return CodeOf(err) == ErrLibBadParams
}
