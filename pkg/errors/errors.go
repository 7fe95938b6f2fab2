package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies the failures the scraper can hit
type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error represents a scraper error with type information. Code carries the
// HTTP status for network-originated errors and is zero otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// NewInvalidArgument creates an invalid argument error
func NewInvalidArgument(msg string) *Error {
	return &Error{Type: ErrorTypeInvalidArgument, Message: msg}
}

// NewIO creates an I/O error wrapping a filesystem failure
func NewIO(msg string, err error) *Error {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Type: ErrorTypeIO, Message: msg}
}

// NewHTTP creates a network-originated error for the given status code
func NewHTTP(errType ErrorType, msg string, code int) *Error {
	return &Error{Type: errType, Message: msg, Code: code}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an
// *Error from this package.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsInvalidArgument reports whether err is an invalid argument error
func IsInvalidArgument(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidArgument
}

// IsHTTPError reports whether err originated from an HTTP fetch
func IsHTTPError(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeNotFound, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsIOError reports whether err originated from a filesystem write
func IsIOError(err error) bool {
	return TypeOf(err) == ErrorTypeIO
}
