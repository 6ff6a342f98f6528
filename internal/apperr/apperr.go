// Package apperr defines the typed failure taxonomy shared by services,
// middleware, and handlers. Every business failure is one of a small set of
// kinds, each carrying a human-readable message and an HTTP status fixed at
// construction time.
//
// Contract: any layer may return an *Error, but nothing between the point of
// failure and the global error handler middleware may catch or rewrite it.
// The middleware is the single translation point into HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, machine-readable failure category.
type Kind string

const (
	// KindValidation marks malformed or invalid input (422).
	KindValidation Kind = "validation"
	// KindAuthentication marks a missing, invalid, or expired credential (401).
	KindAuthentication Kind = "authentication"
	// KindConflict marks a uniqueness violation (409).
	KindConflict Kind = "conflict"
	// KindNotFound marks an absent resource, or one not owned by the
	// caller; the two are deliberately indistinguishable (404).
	KindNotFound Kind = "not_found"
	// KindInternal marks an unexpected failure (500).
	KindInternal Kind = "internal"
)

// statusFor maps each kind to its immutable HTTP status.
var statusFor = map[Kind]int{
	KindValidation:     http.StatusUnprocessableEntity,
	KindAuthentication: http.StatusUnauthorized,
	KindConflict:       http.StatusConflict,
	KindNotFound:       http.StatusNotFound,
	KindInternal:       http.StatusInternalServerError,
}

// Error is the concrete typed failure. The status is assigned from the kind
// at construction and never changes afterwards.
type Error struct {
	kind   Kind
	status int
	msg    string
	cause  error
}

// Error implements the error interface with a compact dev-friendly string.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.kind, e.status, e.msg, e.cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.kind, e.status, e.msg)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the failure category.
func (e *Error) Kind() Kind { return e.kind }

// HTTPStatus returns the response status fixed at construction.
func (e *Error) HTTPStatus() int { return e.status }

// Message returns the human-readable, client-safe message.
func (e *Error) Message() string { return e.msg }

func newError(kind Kind, msg string, cause ...error) *Error {
	e := &Error{kind: kind, status: statusFor[kind], msg: msg}
	if len(cause) > 0 {
		e.cause = cause[0]
	}
	return e
}

// Validation builds a 422 failure for malformed or invalid input.
func Validation(msg string) *Error { return newError(KindValidation, msg) }

// Authentication builds a 401 failure for credential problems.
func Authentication(msg string) *Error { return newError(KindAuthentication, msg) }

// Conflict builds a 409 failure for uniqueness violations.
func Conflict(msg string) *Error { return newError(KindConflict, msg) }

// NotFound builds a 404 failure for absent or foreign-owned resources.
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }

// Internal wraps an unexpected failure as a 500. The cause is retained for
// logging but never shown to production clients.
func Internal(cause error) *Error {
	return newError(KindInternal, "Internal server error", cause)
}

// As extracts the typed error from err's chain, if present.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.kind == kind
	}
	return false
}

// StatusOf returns the HTTP status for err: the fixed status for typed
// errors, 500 for anything else.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.status
	}
	return http.StatusInternalServerError
}
