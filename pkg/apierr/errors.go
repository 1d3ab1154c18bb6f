// Package apierr carries the typed error taxonomy shared by the Concur
// adapter and the HTTP tool layer. Services return these errors; only the
// transport boundary converts them into caller-facing responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an adapter failure.
type Code string

const (
	// CodeAuthentication covers token acquisition or refresh failures and a
	// second consecutive 401 from the vendor.
	CodeAuthentication Code = "authentication"
	// CodeNotFound covers a vendor 404 or an "Invalid User" response body.
	CodeNotFound Code = "not_found"
	// CodeValidation covers locally detected missing or invalid fields,
	// raised before any network call.
	CodeValidation Code = "validation"
	// CodeRemote is the catch-all for any other non-2xx vendor response or a
	// response body that fails to parse.
	CodeRemote Code = "remote"

	// CodeBadRequest and CodeInternal exist for the HTTP boundary only.
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Error is the concrete error type for the adapter. The vendor-provided
// message, when present, is preserved verbatim in Message.
type Error struct {
	Code    Code
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// New builds an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, err: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.err
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code on err, or CodeInternal when err carries
// no taxonomy code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error's taxonomy code to an HTTP status for the tool
// API. Errors without a code map to 500.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
