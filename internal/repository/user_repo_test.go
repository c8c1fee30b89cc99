package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// A registration that loses the insert race surfaces the constraint
// error wrapped by the service layer; the detector must see through the
// wrapping and must not fire on other SQLSTATEs.
func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bare violation", unique, true},
		{"wrapped violation", fmt.Errorf("create user: %w", unique), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("connection reset"), false},
		{"no rows", ErrNoRows, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
