package quranapi

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error kinds. client_error is a local transport failure, api_error is a
// non-2xx response from upstream, unknown_error is anything unclassifiable.
const (
	KindClientError  = "client_error"
	KindAPIError     = "api_error"
	KindUnknownError = "unknown_error"
)

// Error is the only error shape that crosses the client boundary. Every
// operation returns either a typed payload or one of these; nothing else
// escapes.
type Error struct {
	Message string `json:"message"`
	Kind    string `json:"type"`
	Success bool   `json:"success"`
}

func (e *Error) Error() string {
	return e.Message
}

// Failed satisfies querycache.FailedPayload so an error value that arrives
// as a decoded payload is still recognized as a failure.
func (e *Error) Failed() bool {
	return !e.Success
}

// AsError unwraps err into a *Error if there is one in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func apiError(resource string, statusCode int) *Error {
	return &Error{
		Message: fmt.Sprintf("Failed to fetch %s: %s", resource, http.StatusText(statusCode)),
		Kind:    KindAPIError,
		Success: false,
	}
}

func transportError(err error) *Error {
	if err == nil || err.Error() == "" {
		return &Error{
			Message: "An unexpected error occurred",
			Kind:    KindUnknownError,
			Success: false,
		}
	}
	return &Error{
		Message: err.Error(),
		Kind:    KindClientError,
		Success: false,
	}
}

// errorShape captures the documented upstream error markers. A payload that
// merely lacks a success flag is treated as successful; only an explicit
// success=false with a message is an error value. Upstream is ambiguous
// here, so the contract is deliberately not strengthened beyond that.
type errorShape struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (e *errorShape) asError() *Error {
	if e.Success != nil && !*e.Success && e.Message != "" {
		kind := e.Type
		if kind == "" {
			kind = KindUnknownError
		}
		return &Error{Message: e.Message, Kind: kind, Success: false}
	}
	return nil
}
