// Package apperr defines the flat error taxonomy shared by services and
// handlers. Every kind maps to one HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// Error is an error that is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Withf returns a copy of e with a more specific message. The copy still
// matches e under errors.Is as long as e has a code.
func (e *Error) Withf(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Message: fmt.Sprintf(format, args...), Code: e.Code}
}

// Is matches on kind, and on code when the target carries one, so that
// sentinel values can be compared with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Message == e.Message
}

func newError(kind Kind, message string, code []string) *Error {
	e := &Error{Kind: kind, Message: message}
	if len(code) > 0 {
		e.Code = code[0]
	}
	return e
}

func BadRequest(message string, code ...string) *Error {
	return newError(KindBadRequest, message, code)
}

func Unauthorized(message string, code ...string) *Error {
	return newError(KindUnauthorized, message, code)
}

func Forbidden(message string, code ...string) *Error {
	return newError(KindForbidden, message, code)
}

func NotFound(message string, code ...string) *Error {
	return newError(KindNotFound, message, code)
}

func Internal(message string, code ...string) *Error {
	return newError(KindInternal, message, code)
}

// As extracts the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
