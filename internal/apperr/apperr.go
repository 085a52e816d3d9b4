// Package apperr defines the error taxonomy shared by the store, the
// query surface and the reminder daemon. Callers branch on Kind rather
// than matching message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes an application error
type Kind int

const (
	KindValidation Kind = iota // malformed input (empty name, progress out of range)
	KindNotFound               // referenced id does not exist
	KindInvariant              // operation would break a structural rule
	KindConflict               // operation blocked by existing references
	KindDelivery               // a notification channel failed
	KindStorage                // underlying database failure
)

// String returns the string representation of the error kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvariant:
		return "invariant"
	case KindConflict:
		return "conflict"
	case KindDelivery:
		return "delivery"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a structured application error
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error for a resource/id pair
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// Invariant creates an invariant-violation error
func Invariant(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Delivery creates a delivery error for a failing notification channel
func Delivery(channel string, cause error) *Error {
	return &Error{Kind: KindDelivery, Message: fmt.Sprintf("channel %s failed", channel), Cause: cause}
}

// Storage wraps a database failure
func Storage(op string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: op, Cause: cause}
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
