// Package errors provides the scheduler's typed error taxonomy: a small closed set of
// kinds, each carrying its own HTTP status, so handlers never have to guess a status
// code from a generic error value.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error. Kind and Message are the wire-visible fields (see
// §6/§7); Status and Err stay server-side.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error.
func New(kind string, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Wrap attaches taxonomy context to an existing error.
func Wrap(err error, kind string, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: err}
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Sentinel errors, one per kind named in §7.
var (
	ErrValidation           = New("validation_error", http.StatusBadRequest, "validation failed")
	ErrConfiguration        = New("configuration_error", http.StatusInternalServerError, "configuration error")
	ErrEmptyCatalog         = New("empty_catalog", http.StatusOK, "catalog is empty for the requested window")
	ErrNoFeasibleCandidates = New("no_feasible_candidates", http.StatusOK, "no feasible candidates for the requested window")
	ErrScheduler            = New("scheduler_error", http.StatusInternalServerError, "scheduler error")
	ErrInternal             = New("internal_error", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error, defaulting to ErrInternal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Kind, ErrInternal.Status, err.Error())
}
