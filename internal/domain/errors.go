package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so callers can map it to a
// transport status without string matching.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindConflict          ErrorKind = "CONFLICT"
	KindUnavailable       ErrorKind = "UNAVAILABLE"
	KindSelfBooking       ErrorKind = "SELF_BOOKING"
	KindMissingEvidence   ErrorKind = "MISSING_EVIDENCE"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
)

// Error is the single error type returned across the service boundary.
// State errors carry the current and attempted status for diagnosability.
type Error struct {
	Kind            ErrorKind
	Message         string
	CurrentStatus   string
	AttemptedStatus string
}

func (e *Error) Error() string {
	if e.CurrentStatus != "" || e.AttemptedStatus != "" {
		return fmt.Sprintf("%s: %s (current=%s, attempted=%s)", e.Kind, e.Message, e.CurrentStatus, e.AttemptedStatus)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the kind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func NewNotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

func NewForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NewInvalidState(msg, current, attempted string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg, CurrentStatus: current, AttemptedStatus: attempted}
}

func NewInvalidTransition(current, attempted string) *Error {
	return &Error{
		Kind:            KindInvalidTransition,
		Message:         "illegal delivery transition",
		CurrentStatus:   current,
		AttemptedStatus: attempted,
	}
}

func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewUnavailable(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

func NewSelfBooking() *Error {
	return &Error{Kind: KindSelfBooking, Message: "renter cannot book their own listing"}
}

func NewMissingEvidence(msg string) *Error {
	return &Error{Kind: KindMissingEvidence, Message: msg}
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
