package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/model"
	"github.com/KaranGhugal/STM/internal/repository"
	"github.com/KaranGhugal/STM/internal/rolecache"
)

// RoleService enforces the role authorization policy:
//
//  1. self-access: users may always read/update their own role record
//  2. listing, creating and deleting role records require admin
//  3. escalation guard: only super_admin assigns admin or super_admin;
//     admins assign only user
type RoleService struct {
	Roles *repository.RoleRepository
	Users *repository.UserRepository
	Cache *rolecache.Cache
}

func NewRoleService(r *repository.RoleRepository, u *repository.UserRepository, c *rolecache.Cache) *RoleService {
	return &RoleService{Roles: r, Users: u, Cache: c}
}

// actingRole re-resolves the caller's current role through the cache so
// a role change takes effect here within the cache TTL instead of only
// on next login.
func (s *RoleService) actingRole(ctx context.Context, actorID int64) (string, error) {
	if s.Cache != nil {
		if role, ok := s.Cache.Get(ctx, actorID); ok {
			return role, nil
		}
	}
	rec, err := s.Roles.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return "", apperr.E(apperr.ErrNotFound, "role not found for this user")
		}
		return "", fmt.Errorf("lookup acting role: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, actorID, rec.Role); err != nil {
			log.Printf("role cache set: %v", err)
		}
	}
	return rec.Role, nil
}

func isAdminRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleSuperAdmin
}

// assignmentAllowed applies the escalation rule: handing out admin or
// super_admin requires the actor to be exactly super_admin; any actor
// may hand out user.
func assignmentAllowed(actorRole, target string) bool {
	if target == model.RoleAdmin || target == model.RoleSuperAdmin {
		return actorRole == model.RoleSuperAdmin
	}
	return true
}

func (s *RoleService) requireAdmin(ctx context.Context, actorID int64) error {
	role, err := s.actingRole(ctx, actorID)
	if err != nil {
		return err
	}
	if !isAdminRole(role) {
		return apperr.E(apperr.ErrForbidden, "admin access required")
	}
	return nil
}

// checkAssignment applies the escalation guard to a role value the actor
// wants to hand out.
func (s *RoleService) checkAssignment(ctx context.Context, actorID int64, target string) error {
	if !model.ValidRole(target) {
		return apperr.E(apperr.ErrInvalidArgument, "invalid or missing role specified")
	}
	if target == model.RoleAdmin || target == model.RoleSuperAdmin {
		actor, err := s.actingRole(ctx, actorID)
		if err != nil {
			return err
		}
		if !assignmentAllowed(actor, target) {
			return apperr.E(apperr.ErrForbidden, "only super_admin can assign admin or super_admin roles")
		}
	}
	return nil
}

// GetMine returns the caller's own role record.
func (s *RoleService) GetMine(ctx context.Context, actorID int64) (*model.Role, error) {
	rec, err := s.Roles.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "role not found for this user")
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	return rec, nil
}

// List returns every role record; admin only.
func (s *RoleService) List(ctx context.Context, actorID int64) ([]model.Role, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.Roles.List(ctx)
}

// Create adds a role projection for an existing user; admin only, and
// the assigned value passes the escalation guard.
func (s *RoleService) Create(ctx context.Context, actorID, targetUserID int64, role string) (*model.Role, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleUser
	}
	if err := s.checkAssignment(ctx, actorID, role); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	exists, err := s.Roles.ExistsForUser(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("check role: %w", err)
	}
	if exists {
		return nil, apperr.E(apperr.ErrConflict, "role entry already exists for this user")
	}
	return s.Roles.Create(ctx, user.UserID, user.Name, user.Email, role)
}

// Get returns a role record: the caller's own, or any record for admins.
func (s *RoleService) Get(ctx context.Context, actorID, roleID int64) (*model.Role, error) {
	rec, err := s.Roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "role not found")
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	if rec.UserID != actorID {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, apperr.E(apperr.ErrForbidden, "cannot access other user data")
		}
	}
	return rec, nil
}

// UpdateDetails rewrites the name/email of a role record; the caller's
// own, or any record for admins. The role row mirrors the users table,
// so both rows are rewritten in one transaction and cannot drift apart.
// The role value itself changes only through ChangeRole.
func (s *RoleService) UpdateDetails(ctx context.Context, actorID, roleID int64, name, email string) (*model.Role, error) {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	rec, err := s.Roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "role not found")
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	if rec.UserID != actorID {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, apperr.E(apperr.ErrForbidden, "cannot update other user data")
		}
	}

	user, err := s.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if name == "" {
		name = user.Name
	}
	if email == "" {
		email = user.Email
	} else if email != user.Email {
		taken, err := s.Users.EmailExistsOther(ctx, email, rec.UserID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, apperr.E(apperr.ErrConflict, "email already in use")
		}
	}

	tx, err := s.Roles.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.Users.UpdateProfileTx(ctx, tx, rec.UserID, name, email, user.Phone, user.PasswordHash, user.Photo); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.E(apperr.ErrConflict, "email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.Roles.SyncDetailsTx(ctx, tx, rec.UserID, name, email); err != nil {
		return nil, fmt.Errorf("sync role: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.Roles.GetByID(ctx, roleID)
}

// Delete removes a role record; admin only.
func (s *RoleService) Delete(ctx context.Context, actorID, roleID int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	rec, err := s.Roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "role not found")
		}
		return fmt.Errorf("lookup role: %w", err)
	}
	if err := s.Roles.Delete(ctx, roleID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, rec.UserID); err != nil {
			log.Printf("role cache invalidate: %v", err)
		}
	}
	return nil
}

// ChangeRole mutates the role value of a record; admin only, with the
// escalation guard applied to the new value. The target's cached role is
// invalidated so the change is visible within the cache TTL.
func (s *RoleService) ChangeRole(ctx context.Context, actorID, roleID int64, newRole string) (*model.Role, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := s.checkAssignment(ctx, actorID, newRole); err != nil {
		return nil, err
	}

	rec, err := s.Roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "role not found")
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	if err := s.Roles.SetRole(ctx, roleID, newRole); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, rec.UserID); err != nil {
			log.Printf("role cache invalidate: %v", err)
		}
	}
	return s.Roles.GetByID(ctx, roleID)
}
