// Package domainerrors provides coded errors for the pipeline's domain layer.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors with a caller-facing reason so
// transport layers can map them to distinct outcomes without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for caller-visible dispatch.
type Code string

const (
	// CodeValidation marks caller-fault input errors: bad geometry,
	// out-of-range areas, malformed oracle readings. Never retried.
	CodeValidation Code = "validation"

	// CodeNotFound marks expected absence. Not a failure; never logged
	// at error level.
	CodeNotFound Code = "not_found"

	// CodeConflict marks uniqueness violations such as a duplicate farm
	// registration. The caller resubmits with a different identifier or
	// treats the prior attempt as the success.
	CodeConflict Code = "conflict"

	// CodeDependency marks storage or publish failures. The underlying
	// cause is preserved for observability; retry policy belongs to the
	// caller.
	CodeDependency Code = "dependency"

	// CodeInternal marks invariant violations that indicate a bug.
	CodeInternal Code = "internal"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code   Code
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a specific reason string.
func New(code Code, reason string) error {
	return &Error{Code: code, Reason: reason}
}

// Newf creates a coded error with a formatted reason string.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error preserving the underlying cause.
func Wrap(err error, code Code, reason string) error {
	return &Error{Code: code, Reason: reason, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ReasonOf returns the caller-facing reason, falling back to err.Error().
func ReasonOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return err.Error()
}
