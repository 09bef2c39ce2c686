package scheduler

import (
	"errors"
	"fmt"
)

// Every failure returned by Service unwraps to exactly one of these.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrConflict          = errors.New("time conflicts with existing appointment")
	ErrPersistence       = errors.New("persistence failure")
)

// Error carries the failing kind and what it is about: the field name for
// ErrMissingField, the entity for ErrNotFound, "doctor" or "patient" for ErrConflict.
type Error struct {
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func missing(field string) error { return &Error{Kind: ErrMissingField, Subject: field} }
func notFound(entity string) error { return &Error{Kind: ErrNotFound, Subject: entity} }
func conflict(scope string) error { return &Error{Kind: ErrConflict, Subject: scope} }

func persistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Subject: op, Err: err}
}

// Subject returns the field, entity or scope attached to err, if any.
func Subject(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Subject
	}
	return ""
}

// Kind names the failure for transports and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInterval):
		return "invalid_interval"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "persistence"
	}
}
