package model

import "time"

// Role values form a closed enum.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRole reports whether r is one of the known role values.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// Role is a pure authorization projection of a User: it carries no
// credentials and is joined to its user by id, not email.
type Role struct {
	RoleID    int64      `json:"roleId"`
	UserID    int64      `json:"userId"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the role grants admin-level access.
func (r *Role) IsAdmin() bool {
	return r.Role == RoleAdmin || r.Role == RoleSuperAdmin
}
