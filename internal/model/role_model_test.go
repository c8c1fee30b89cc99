package model

import "testing"

func TestValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{RoleSuperAdmin, true},
		{"", false},
		{"Admin", false},
		{"superadmin", false},
		{"root", false},
	}
	for _, tt := range tests {
		if got := ValidRole(tt.role); got != tt.want {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRole_IsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleUser, false},
		{RoleAdmin, true},
		{RoleSuperAdmin, true},
	}
	for _, tt := range tests {
		r := &Role{Role: tt.role}
		if got := r.IsAdmin(); got != tt.want {
			t.Errorf("IsAdmin() with role %q = %v, want %v", tt.role, got, tt.want)
		}
	}
}
