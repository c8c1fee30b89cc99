// Package apperr defines the error kinds the API distinguishes and their
// HTTP status mapping. Services attach a client-facing message with E;
// endpoints resolve the status with Status and surface the message verbatim.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrConfig          = errors.New("server configuration incomplete")
	ErrUnavailable     = errors.New("service unavailable")
)

// Error carries a kind plus a message safe to return to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// E builds an Error of the given kind.
func E(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Status maps an error to the HTTP status code of its kind. Errors outside
// the taxonomy map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Errors outside the
// taxonomy get a generic message so internals never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	for _, kind := range []error{
		ErrInvalidArgument, ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrConflict, ErrInvalidToken, ErrTokenExpired, ErrConfig, ErrUnavailable,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
