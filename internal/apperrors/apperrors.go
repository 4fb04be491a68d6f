package apperrors

import (
	"errors"
	"net/http"
)

// Error is a request-level failure with an HTTP status and a message that
// is safe to return to the client.
type Error struct {
	Status  int
	Message string
	Err     error // optional underlying cause, never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or out-of-bounds input.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthenticated reports a missing, invalid or expired credential.
func Unauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller acting on a resource they do not own.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound reports a resource id that does not exist.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Duplicate reports a uniqueness conflict, e.g. an already registered email.
func Duplicate(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is logged server-side;
// the client only sees a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// StatusOf extracts the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf extracts the client-safe message for err. Unexpected errors are
// not leaked verbatim.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
