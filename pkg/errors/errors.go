// Package errors defines the typed application errors shared by services
// and the HTTP layer.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a stable machine-readable code.
// Two errors match under errors.Is when kind and code are equal, so a
// sentinel carrying extra Data still matches its bare declaration.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Data    map[string]any
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Is reports whether target is an *Error with the same kind and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// WithData returns a copy of e carrying data in the response envelope.
func (e *Error) WithData(data map[string]any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Unauthenticated(code, message string) *Error {
	return New(KindUnauthenticated, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Common errors shared across packages.
var (
	ErrAuthRequired = Unauthenticated("", "Authentication required")
	ErrInvalidToken = Unauthenticated("INVALID_TOKEN", "Invalid or expired credential")
	ErrForbidden    = Forbidden("", "Forbidden")
	ErrAccessDenied = Forbidden("ACCESS_DENIED", "Access denied")
	ErrUserIDInBody = Validation("USER_ID_NOT_ALLOWED", "userId must not be provided in the request body")
	ErrInvalidBody  = Validation("INVALID_BODY", "Request body is not valid JSON")
	ErrInvalidID    = Validation("INVALID_ID", "Invalid id")
	ErrInvalidQuery = Validation("INVALID_QUERY", "Invalid query parameters")
	ErrRateLimited  = New(KindRateLimited, "RATE_LIMITED", "Too many requests")
	ErrDuplicateKey = Conflict("CONFLICT", "Resource already exists")
	ErrInternal     = New(KindInternal, "", "Internal server error")
)
