package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed client error. Code tells the three failure classes apart:
// validation (never sent), application (service answered non-2xx) and transport.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
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

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeApplication = "APPLICATION_ERROR"
	CodeTransport   = "TRANSPORT_ERROR"
)

// Predefined errors for common scenarios.
var (
	ErrValidation   = New(CodeValidation, http.StatusBadRequest, "validation failed")
	ErrApplication  = New(CodeApplication, http.StatusInternalServerError, "request rejected")
	ErrTransport    = New(CodeTransport, 0, "an error occurred")
	ErrNoSession    = New("NO_SESSION", http.StatusUnauthorized, "not signed in")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
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

// Application builds the error for a non-2xx answer carrying the service message.
func Application(status int, message string) *Error {
	return &Error{Code: CodeApplication, Status: status, Message: message}
}

// Transport wraps a network or decoding failure.
func Transport(err error) *Error {
	return Wrap(err, CodeTransport, 0, ErrTransport.Message)
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsValidation reports a locally rejected input.
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsApplication reports a non-2xx service answer.
func IsApplication(err error) bool { return HasCode(err, CodeApplication) }

// IsTransport reports a network or parse failure.
func IsTransport(err error) bool { return HasCode(err, CodeTransport) }
