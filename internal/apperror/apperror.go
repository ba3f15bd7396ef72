// Package apperror defines the error taxonomy shared by services and HTTP
// handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindData
	KindDatabase
	KindPayloadTooLarge
)

var kindInfo = map[Kind]struct {
	status int
	code   string
}{
	KindInternal:     {http.StatusInternalServerError, "INTERNAL_ERROR"},
	KindValidation:   {http.StatusBadRequest, "VALIDATION_ERROR"},
	KindUnauthorized: {http.StatusUnauthorized, "UNAUTHORIZED"},
	KindForbidden:    {http.StatusForbidden, "FORBIDDEN"},
	KindNotFound:     {http.StatusNotFound, "NOT_FOUND"},
	KindConflict:     {http.StatusConflict, "CONFLICT"},
	KindRateLimited:  {http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
	KindData:         {http.StatusInternalServerError, "DATA_ERROR"},
	KindDatabase:     {http.StatusInternalServerError, "DATABASE_ERROR"},

	KindPayloadTooLarge: {http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
}

// Error is an operational error with a client-facing message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinel-style checks such
// as errors.Is(err, apperror.NotFound("")) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Status is the HTTP status for the error kind.
func (e *Error) Status() int {
	return kindInfo[e.Kind].status
}

// ErrorCode is the explicit code, falling back to the kind's default.
func (e *Error) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	return kindInfo[e.Kind].code
}

// WithCode overrides the client-facing code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetail attaches one key to the details object.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func newErr(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return newErr(KindValidation, nil, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newErr(KindUnauthorized, nil, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newErr(KindForbidden, nil, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newErr(KindNotFound, nil, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newErr(KindConflict, nil, format, args...)
}

func RateLimited(format string, args ...any) *Error {
	return newErr(KindRateLimited, nil, format, args...)
}

func PayloadTooLarge(format string, args ...any) *Error {
	return newErr(KindPayloadTooLarge, nil, format, args...)
}

// Data reports a stored or submitted payload that could not be interpreted.
func Data(err error, format string, args ...any) *Error {
	return newErr(KindData, err, format, args...)
}

// Database reports a persistence failure.
func Database(err error, format string, args ...any) *Error {
	return newErr(KindDatabase, err, format, args...)
}

func Internal(err error, format string, args ...any) *Error {
	return newErr(KindInternal, err, format, args...)
}

// From returns err as an *Error, wrapping anything unknown as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err, "Something went wrong")
}

// IsKind reports whether err carries an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
