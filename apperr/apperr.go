// Package apperr defines the domain error taxonomy. Services return *Error
// values; the HTTP layer translates kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNotFound: a referenced game, player, question, or map does not exist.
	KindNotFound Kind = iota + 1
	// KindForbidden: the caller's role or identity does not authorize the action.
	KindForbidden
	// KindConflict: a state-machine precondition is violated.
	KindConflict
	// KindInvalid: caller-supplied input is out of range or incomplete.
	KindInvalid
	// KindInternal: the store failed or a bounded retry budget was exhausted.
	KindInternal
)

// Error is the domain error type. Message is safe to surface to the caller;
// Cause is the wrapped underlying error, if any.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf extracts the kind from an error chain. Unrecognized errors are
// reported as KindInternal so store failures never leak as success paths.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
