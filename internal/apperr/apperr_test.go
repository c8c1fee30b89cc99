package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestE_WrapsKind(t *testing.T) {
	err := E(ErrNotFound, "task not found")

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}
	if err.Error() != "task not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "task not found")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", E(ErrInvalidArgument, "bad input"), http.StatusBadRequest},
		{"invalid token", E(ErrInvalidToken, "bad token"), http.StatusBadRequest},
		{"token expired", E(ErrTokenExpired, "expired"), http.StatusBadRequest},
		{"unauthenticated", E(ErrUnauthenticated, "who are you"), http.StatusUnauthorized},
		{"forbidden", E(ErrForbidden, "no"), http.StatusForbidden},
		{"not found", E(ErrNotFound, "gone"), http.StatusNotFound},
		{"conflict", E(ErrConflict, "exists"), http.StatusConflict},
		{"unavailable", E(ErrUnavailable, "down"), http.StatusServiceUnavailable},
		{"config", E(ErrConfig, "missing secret"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", E(ErrConflict, "exists")), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"tagged message", E(ErrConflict, "email already registered"), "email already registered"},
		{"wrapped tagged message", fmt.Errorf("register: %w", E(ErrConflict, "email already registered")), "email already registered"},
		{"bare kind", ErrForbidden, "forbidden"},
		{"unknown error hidden", errors.New("pq: relation missing"), "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
