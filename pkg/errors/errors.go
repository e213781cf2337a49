package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies an error; the HTTP layer maps it to a status code.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthorization
	KindDependency
	KindConfiguration
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindDependency:
		return "dependency"
	case KindConfiguration:
		return "configuration"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "store"
	}
}

// Violation is a single rejected field.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is the typed application error. Err keeps the underlying cause.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStore {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrOptimisticLock reports a write against a stale version.
var ErrOptimisticLock = &Error{Kind: KindConflict, Message: "record was modified by another request, reload and retry"}

// ── constructors ──

func Validation(message string, violations ...Violation) *Error {
	return &Error{Kind: KindValidation, Message: message, Violations: violations}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func Dependency(message string) *Error {
	return &Error{Kind: KindDependency, Message: message}
}

func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Store wraps a persistence failure. Errors that are already typed pass through.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// FromViolations folds a violation list into one validation error, or nil.
func FromViolations(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return Validation(strings.Join(parts, "; "), violations...)
}

// KindOf returns the error kind. Untyped errors count as store errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// ViolationsOf returns the field violations carried by err, if any.
func ViolationsOf(err error) []Violation {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Violations
	}
	return nil
}

// MessageOf returns the client-facing message. Store causes are never exposed.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return "internal store error"
}
