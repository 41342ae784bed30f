// Package apperr is the single error taxonomy of the API. Every domain failure
// is an *Error carrying a Kind, and the Kind decides the HTTP status written
// at the boundary. None of these errors are retried.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindPageNotValid
	KindNotFound
	KindInvalidID
	KindValidation
	KindBadRequest
	KindAlreadyExists
	KindConflict
	KindUnauthorized
	KindInvalidToken
	KindForbidden
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindPageNotValid:
		return "page_not_valid"
	case KindNotFound:
		return "not_found"
	case KindInvalidID:
		return "invalid_id"
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindAlreadyExists:
		return "already_exists"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidToken:
		return "invalid_token"
	case KindForbidden:
		return "forbidden"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindPageNotValid, KindNotFound:
		return http.StatusNotFound
	case KindInvalidID, KindValidation, KindBadRequest, KindAlreadyExists:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized, KindInvalidToken:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields is only set for KindValidation: json field name -> message.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

func newErr(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

// StatusOf returns the HTTP status for any error, 500 for unknown ones.
func StatusOf(err error) int {
	if ae, ok := As(err); ok {
		return ae.Status()
	}
	return http.StatusInternalServerError
}

func PageNotValid(msg string) *Error {
	return newErr(KindPageNotValid, "Página no válida - "+msg)
}

func CategoryNotFound(msg string) *Error {
	return newErr(KindNotFound, "Categoría no encontrada - "+msg)
}

func FunkoNotFound(msg string) *Error {
	return newErr(KindNotFound, "Funko no encontrado: "+msg)
}

func UserNotFound(msg string) *Error {
	return newErr(KindNotFound, "User no encontrado: "+msg)
}

func NotFound(msg string) *Error {
	return newErr(KindNotFound, msg)
}

func InvalidUUID(msg string) *Error {
	return newErr(KindInvalidID, "UUID no válido - "+msg)
}

func CategoryAlreadyExists(msg string) *Error {
	return newErr(KindAlreadyExists, "Categoría ya existente - "+msg)
}

func UserAlreadyExists(msg string) *Error {
	return newErr(KindConflict, "Usuario ya existente - "+msg)
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Error de validación", Fields: fields}
}

func BadRequest(msg string) *Error {
	return newErr(KindBadRequest, msg)
}

func Unauthorized(msg string) *Error {
	return newErr(KindUnauthorized, msg)
}

func InvalidToken(msg string) *Error {
	return newErr(KindInvalidToken, msg)
}

func Forbidden(msg string) *Error {
	return newErr(KindForbidden, msg)
}

func TooManyRequests(msg string) *Error {
	return newErr(KindTooManyRequests, msg)
}

// Internal wraps an unexpected failure. Its message is never sent to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
