// Package apperr defines the request-scoped error taxonomy. Every
// failure carries a kind, which the HTTP layer maps to a status code,
// and a human-readable reason surfaced to the caller as-is.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation: malformed, missing or oversized input.
	Validation Kind = iota + 1
	// Unauthenticated: username does not resolve to an employee.
	Unauthenticated
	// Forbidden: principal lacks organizational standing.
	Forbidden
	// NotFound: referenced entity or version absent.
	NotFound
	// Conflict: operation invalid in the entity's current state
	// (decision already made, bid cancelled, tender not published).
	Conflict
)

type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newf(Validation, format, args...)
}

func Unauthenticatedf(format string, args ...any) *Error {
	return newf(Unauthenticated, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return newf(Forbidden, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newf(NotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return newf(Conflict, format, args...)
}

// KindOf reports the kind of err, or 0 when err is not a taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == NotFound }
