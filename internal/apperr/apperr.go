// Package apperr defines the error kinds that service operations report to
// their callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	// Internal is any failure that is not one of the kinds below.
	Internal Kind = iota
	// Validation means the input is malformed or structurally inconsistent.
	Validation
	// Forbidden means the caller can see the target but may not act on it.
	Forbidden
	// NotFound means the target does not exist or the caller may not see it.
	NotFound
	// Conflict means two existing identities collide.
	Conflict
	// Unauthenticated means the caller presented no valid credentials.
	Unauthenticated
	// NoProfile means the caller is authenticated but has no actor record.
	NoProfile
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Validation:
		return "validation"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Unauthenticated:
		return "unauthenticated"
	case NoProfile:
		return "no profile"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error { return newf(Validation, format, args...) }
func Forbiddenf(format string, args ...any) error  { return newf(Forbidden, format, args...) }
func NotFoundf(format string, args ...any) error   { return newf(NotFound, format, args...) }
func Conflictf(format string, args ...any) error   { return newf(Conflict, format, args...) }

var (
	ErrUnauthenticated = &Error{Kind: Unauthenticated, Message: "authentication required"}
	ErrNoProfile       = &Error{Kind: NoProfile, Message: "no actor profile for this identity"}
)

// KindOf reports the kind of err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
