package models

import "fmt"

// NotFoundError reports that an entity id did not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a concurrent-write conflict, e.g. a client-id
// sequence collision that survived all retries.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// StorageError wraps an underlying persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// TransitionErrorKind classifies status-transition failures.
type TransitionErrorKind string

const (
	InvalidTarget       TransitionErrorKind = "INVALID_TARGET"
	IllegalTransition   TransitionErrorKind = "ILLEGAL_TRANSITION"
	MissingPrecondition TransitionErrorKind = "MISSING_PRECONDITION"
)

// TransitionError reports a rejected status transition.
type TransitionError struct {
	Kind   TransitionErrorKind
	Entity string
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s -> %s: %s", e.Entity, e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("%s: illegal transition %s -> %s", e.Entity, e.From, e.To)
}
