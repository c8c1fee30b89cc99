package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaranGhugal/STM/internal/apperr"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"name+tag@example.io",
	}
	for _, e := range valid {
		if err := validateEmail(e); err != nil {
			t.Errorf("validateEmail(%q) error = %v, want nil", e, err)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
	}
	for _, e := range invalid {
		if err := validateEmail(e); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("validateEmail(%q) error = %v, want ErrInvalidArgument", e, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("12345678"); err != nil {
		t.Errorf("validatePassword(8 chars) error = %v, want nil", err)
	}
	if err := validatePassword("1234567"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("validatePassword(7 chars) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRegisterInput_Validate(t *testing.T) {
	base := RegisterInput{
		Name:            "Jordan",
		Email:           "jordan@example.com",
		Phone:           "+12025550123",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	}

	if err := base.validate(); err != nil {
		t.Fatalf("validate() on complete input error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"missing phone", func(in *RegisterInput) { in.Phone = "" }},
		{"phone with letters", func(in *RegisterInput) { in.Phone = "+1-202-CALL" }},
		{"phone leading zero", func(in *RegisterInput) { in.Phone = "0123456789" }},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "short", "short" }},
		{"mismatched confirmation", func(in *RegisterInput) { in.ConfirmPassword = "different-pass" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if err := in.validate(); !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Errorf("validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := newOpaqueToken()
	if err != nil {
		t.Fatalf("newOpaqueToken() error = %v", err)
	}
	b, err := newOpaqueToken()
	if err != nil {
		t.Fatalf("newOpaqueToken() error = %v", err)
	}

	if len(a) != 64 {
		t.Errorf("token length = %d, want 64", len(a))
	}
	if strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("token %q contains non-hex characters", a)
	}
	if a == b {
		t.Error("two tokens are identical")
	}
}
