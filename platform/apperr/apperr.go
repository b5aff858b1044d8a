// Package apperr provides standardized domain error types for the application.
// Core services return these typed errors, and the HTTP layer maps them to
// appropriate HTTP status codes. The taxonomy separates client-input problems
// (Validation, BadRequest) from server/artifact problems (SchemaMismatch,
// ModelUnavailable, Inference) so callers can tell which side failed.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindValidation indicates a raw lead record failed schema validation
	// (wrong type, negative count, malformed value).
	KindValidation
	// KindSchemaMismatch indicates the feature transform produced a vector
	// that does not match the width the classifier was fitted on. This means
	// artifact/code version skew, not bad client input.
	KindSchemaMismatch
	// KindModelUnavailable indicates the artifact bundle is not loaded.
	KindModelUnavailable
	// KindInference indicates the numeric computation failed (NaN/Inf).
	KindInference
	// KindBadRequest indicates a malformed or undecodable request.
	KindBadRequest
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
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

// HTTPStatus returns the appropriate HTTP status code for this error kind.
// Validation and SchemaMismatch both surface as 422 Unprocessable Entity;
// the response body's details distinguish them.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindSchemaMismatch:
		return http.StatusUnprocessableEntity
	case KindModelUnavailable:
		return http.StatusServiceUnavailable
	case KindInference, KindInternal:
		return http.StatusInternalServerError
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
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

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// Validation creates a validation error for bad raw input.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// SchemaMismatch creates an artifact/code version skew error.
func SchemaMismatch(message string) *Error {
	return New(KindSchemaMismatch, message)
}

// ModelUnavailable creates an error for a missing artifact bundle.
func ModelUnavailable(message string) *Error {
	return New(KindModelUnavailable, message)
}

// Inference creates an error for a failed numeric computation.
func Inference(message string) *Error {
	return New(KindInference, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Internal creates an internal server error.
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
