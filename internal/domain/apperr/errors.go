// Package apperr defines the error taxonomy shared by services, repositories
// and the HTTP layer, plus the formatter that turns any failure into a
// message suitable for a toast.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an application error
type Code string

const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION_FAILED"
	CodeConflict   Code = "CONFLICT"
	CodeUpstream   Code = "UPSTREAM_FAILED"
	CodeStorage    Code = "STORAGE_FAILED"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is a classified application error
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code && t.Message == ""
	}
	return false
}

// Sentinels for errors.Is checks
var (
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrValidation = &Error{Code: CodeValidation}
	ErrConflict   = &Error{Code: CodeConflict}
	ErrUpstream   = &Error{Code: CodeUpstream}
	ErrStorage    = &Error{Code: CodeStorage}
)

// NotFound reports a missing record
func NotFound(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// Validation reports bad user input
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failed call to the backend service
func Upstream(op string, err error) *Error {
	return &Error{Code: CodeUpstream, Message: op, Err: err}
}

// Storage wraps a failed file storage operation
func Storage(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: op, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
