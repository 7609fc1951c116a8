package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the response class the API layer should use.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindStorage
)

type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

func Validation(code string, format string, args ...interface{}) *Error {
	return New(KindValidation, code, fmt.Errorf(format, args...))
}

func Forbidden(code string, format string, args ...interface{}) *Error {
	return New(KindForbidden, code, fmt.Errorf(format, args...))
}

func NotFound(code string, format string, args ...interface{}) *Error {
	return New(KindNotFound, code, fmt.Errorf(format, args...))
}

func Conflict(code string, format string, args ...interface{}) *Error {
	return New(KindConflict, code, fmt.Errorf(format, args...))
}

func InvalidState(code string, format string, args ...interface{}) *Error {
	return New(KindInvalidState, code, fmt.Errorf(format, args...))
}

func Storage(err error) *Error {
	return New(KindStorage, "storage_failure", err)
}

// KindOf unwraps err looking for an *Error; plain errors are KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "internal_error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
