// Package apperr provides standardized domain error types for the application.
// Pipeline components return these typed errors so callers can distinguish
// locally recoverable rejections from hard failures.
package apperr

import (
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindParse indicates a candidate string could not be interpreted as a number.
	KindParse
	// KindValidation indicates a candidate was rejected by the layered policy.
	KindValidation
	// KindClassification indicates a valid number could not be canonicalized or
	// assigned a region.
	KindClassification
	// KindExternal indicates a failure in an external collaborator (lookup API).
	KindExternal
	// KindStorage indicates a persistence failure.
	KindStorage
	// KindNotFound indicates a record was not found.
	KindNotFound
	// KindConflict indicates a conflict with existing state (e.g., duplicate).
	KindConflict
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the error category is locally recoverable by the
// pipeline: such errors reject or drop a single candidate and never abort a run.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case KindParse, KindValidation, KindClassification, KindExternal:
		return true
	default:
		return false
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Convenience constructors for common error types.

// Parse creates a parse error.
func Parse(message string) *Error {
	return New(KindParse, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Classification creates a classification error.
func Classification(message string) *Error {
	return New(KindClassification, message)
}

// External creates an external collaborator error.
func External(message string) *Error {
	return New(KindExternal, message)
}

// Storage creates a storage error.
func Storage(message string) *Error {
	return New(KindStorage, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
