// internal/app/features/errors/errors.go

// Package errors is the API error pipeline: every handler failure is
// expressed as an *Error with a Kind, and rendered as a uniform JSON
// body. Only the whitelisted fields (status, message, field errors)
// are ever serialized; internal store errors stay in the logs.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure and determines the HTTP status.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation covers field-level constraint violations.
	KindValidation
	// KindBadRequest covers malformed or incomplete requests.
	KindBadRequest
	// KindUnauthenticated covers missing, invalid, or superseded credentials.
	KindUnauthenticated
	// KindForbidden covers authenticated callers lacking the required role.
	KindForbidden
	// KindNotFound covers missing resources.
	KindNotFound
	// KindTokenInvalid covers invalid or expired reset tokens.
	KindTokenInvalid
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified API failure. Message is client-safe; Err (if
// set) is the underlying cause and is only logged, never serialized.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error's kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindTokenInvalid:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New constructs an Error of the given kind with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error that records cause for logging while
// presenting message to the client.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validation constructs a field-level validation Error.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input data", Fields: fields}
}

// AsError extracts an *Error from err, or wraps it as KindInternal with
// a generic message so unclassified causes never reach clients.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Wrap(KindInternal, "something went wrong", err)
}
