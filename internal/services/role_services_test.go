package services

import (
	"context"
	"errors"
	"testing"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/model"
)

func TestAssignmentAllowed(t *testing.T) {
	tests := []struct {
		actor  string
		target string
		want   bool
	}{
		{model.RoleSuperAdmin, model.RoleSuperAdmin, true},
		{model.RoleSuperAdmin, model.RoleAdmin, true},
		{model.RoleSuperAdmin, model.RoleUser, true},
		{model.RoleAdmin, model.RoleSuperAdmin, false},
		{model.RoleAdmin, model.RoleAdmin, false},
		{model.RoleAdmin, model.RoleUser, true},
		{model.RoleUser, model.RoleAdmin, false},
		{model.RoleUser, model.RoleUser, true},
	}
	for _, tt := range tests {
		if got := assignmentAllowed(tt.actor, tt.target); got != tt.want {
			t.Errorf("assignmentAllowed(%q, %q) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}

func TestIsAdminRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{model.RoleUser, false},
		{model.RoleAdmin, true},
		{model.RoleSuperAdmin, true},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAdminRole(tt.role); got != tt.want {
			t.Errorf("isAdminRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

// A malformed email must fail before UpdateDetails reads or writes
// anything, so the call runs against nil repositories here.
func TestRoleService_UpdateDetailsBadEmail(t *testing.T) {
	s := NewRoleService(nil, nil, nil)

	_, err := s.UpdateDetails(context.Background(), 1, 1, "", "not-an-email")
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("UpdateDetails() error = %v, want ErrInvalidArgument", err)
	}
}
