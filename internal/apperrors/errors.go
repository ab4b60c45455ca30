// Package apperrors defines the error taxonomy surfaced by the core services.
// Every kind here is an expected, caller-recoverable condition; anything else
// reaching a handler is reported as a generic internal error without leaking
// storage details.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an expected failure.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyUsed   Kind = "ALREADY_USED"
	KindExpired       Kind = "EXPIRED"
	KindConfiguration Kind = "CONFIGURATION"
	KindGeneration    Kind = "GENERATION"
	// KindConflict is an internal signal from the conditional token write. It
	// is always translated to ALREADY_USED or EXPIRED before reaching a caller.
	KindConflict Kind = "CONFLICT"
)

// Error is an expected failure with a stable kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input.
func Validation(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

// NotFound reports an unknown token code or missing referenced entity.
func NotFound(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

// AlreadyUsed reports a token that has been consumed, including races
// resolved after the fact.
func AlreadyUsed(format string, args ...interface{}) *Error {
	return Newf(KindAlreadyUsed, format, args...)
}

// Expired reports a token past its validity window.
func Expired(format string, args ...interface{}) *Error {
	return Newf(KindExpired, format, args...)
}

// Configuration reports an administrative misconfiguration of the prize table.
func Configuration(format string, args ...interface{}) *Error {
	return Newf(KindConfiguration, format, args...)
}

// Generation reports failure to mint a unique token code within the retry bound.
func Generation(format string, args ...interface{}) *Error {
	return Newf(KindGeneration, format, args...)
}

// Conflict reports a conditional write whose precondition no longer held.
func Conflict(format string, args ...interface{}) *Error {
	return Newf(KindConflict, format, args...)
}

// KindOf extracts the kind of err, or "" when err is not an apperrors.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is an apperrors.Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
