package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/model"
	"github.com/KaranGhugal/STM/internal/repository"
)

// TaskService enforces the ownership and sharing model: owners hold full
// control, shared members may read and change status, everyone else is
// locked out.
type TaskService struct {
	Tasks *repository.TaskRepository
	Users *repository.UserRepository
}

func NewTaskService(t *repository.TaskRepository, u *repository.UserRepository) *TaskService {
	return &TaskService{Tasks: t, Users: u}
}

// CreateTaskInput carries the fields of a new task. Status defaults to
// pending, priority to medium, sharedWith to empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     time.Time
	SharedWith  []int64
}

func validateTaskFields(title, description, category, priority, status string, due time.Time) error {
	if strings.TrimSpace(title) == "" {
		return apperr.E(apperr.ErrInvalidArgument, "title is required")
	}
	if len(title) > model.TitleMaxLen {
		return apperr.E(apperr.ErrInvalidArgument,
			fmt.Sprintf("title cannot exceed %d characters", model.TitleMaxLen))
	}
	if len(description) > model.DescriptionMaxLen {
		return apperr.E(apperr.ErrInvalidArgument,
			fmt.Sprintf("description cannot exceed %d characters", model.DescriptionMaxLen))
	}
	if !model.ValidCategory(category) {
		return apperr.E(apperr.ErrInvalidArgument,
			"category must be one of: "+strings.Join(model.TaskCategories, ", "))
	}
	if !model.ValidPriority(priority) {
		return apperr.E(apperr.ErrInvalidArgument, "priority must be one of: high, medium, low")
	}
	if !model.ValidStatus(status) {
		return apperr.E(apperr.ErrInvalidArgument,
			"invalid status. Must be one of: pending, in-progress, completed")
	}
	if due.IsZero() {
		return apperr.E(apperr.ErrInvalidArgument, "due date is required")
	}
	return nil
}

// List returns the tasks the requester owns or is shared on, newest
// first.
func (s *TaskService) List(ctx context.Context, requesterID int64) ([]model.Task, error) {
	return s.Tasks.ListForUser(ctx, requesterID)
}

// ListByCategory filters accessible tasks by a validated category,
// soonest due first.
func (s *TaskService) ListByCategory(ctx context.Context, requesterID int64, category string) ([]model.Task, error) {
	if !model.ValidCategory(category) {
		return nil, apperr.E(apperr.ErrInvalidArgument, "invalid category")
	}
	return s.Tasks.ListForUserByCategory(ctx, requesterID, category)
}

// ListDueSoon returns the requester's own pending tasks due inside the
// window; the notifications feed.
func (s *TaskService) ListDueSoon(ctx context.Context, requesterID int64, window time.Duration) ([]model.Task, error) {
	return s.Tasks.ListDueSoon(ctx, requesterID, window)
}

// canViewTask covers the read and status-update surface: owner plus
// every shared member.
func canViewTask(t *model.Task, userID int64) bool {
	return t.UserID == userID || t.SharedWithUser(userID)
}

// isTaskOwner covers the full-edit, delete and share surface.
func isTaskOwner(t *model.Task, userID int64) bool {
	return t.UserID == userID
}

// checkShareTargets vets a replacement share set before any row is
// written: self-shares are invalid and every target must exist.
func (s *TaskService) checkShareTargets(ctx context.Context, ownerID int64, targets []int64) error {
	for _, uid := range targets {
		if uid == ownerID {
			return apperr.E(apperr.ErrInvalidArgument, "cannot share task with yourself")
		}
		if _, err := s.Users.GetByID(ctx, uid); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return apperr.E(apperr.ErrNotFound, "user not found")
			}
			return fmt.Errorf("lookup share target: %w", err)
		}
	}
	return nil
}

func (s *TaskService) getTask(ctx context.Context, taskID int64) (*model.Task, error) {
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "task not found")
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	return t, nil
}

// Get returns a task if the requester is its owner or a shared member.
func (s *TaskService) Get(ctx context.Context, taskID, requesterID int64) (*model.Task, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canViewTask(t, requesterID) {
		return nil, apperr.E(apperr.ErrForbidden, "unauthorized access to task")
	}
	return t, nil
}

// Create validates the closed enums and the share set, then inserts the
// task row and its shares in one transaction under the owner.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*model.Task, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	if err := validateTaskFields(in.Title, in.Description, in.Category, in.Priority, in.Status, in.DueDate); err != nil {
		return nil, err
	}

	if err := s.checkShareTargets(ctx, ownerID, in.SharedWith); err != nil {
		return nil, err
	}

	t := &model.Task{
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}
	tx, err := s.Tasks.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create task: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := s.Tasks.CreateTx(ctx, tx, t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if len(in.SharedWith) > 0 {
		if err := s.Tasks.ReplaceSharesTx(ctx, tx, id, in.SharedWith); err != nil {
			return nil, fmt.Errorf("set shares: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create task: %w", err)
	}
	return s.getTask(ctx, id)
}

// UpdateTaskPatch holds the optional field changes of a full update.
// The owning user id is immutable and has no patch field.
type UpdateTaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
	DueDate     *time.Time
	SharedWith  *[]int64
}

// applyTaskPatch folds the set fields into the task and re-validates
// the result. The task is only mutated in memory.
func applyTaskPatch(t *model.Task, patch UpdateTaskPatch) error {
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	return validateTaskFields(t.Title, t.Description, t.Category, t.Priority, t.Status, t.DueDate)
}

// Update applies an owner-only patch across arbitrary fields. Every
// check runs before the first write, and the row update plus the share
// rewrite commit in one transaction, so a rejected patch leaves the
// task untouched.
func (s *TaskService) Update(ctx context.Context, taskID, requesterID int64, patch UpdateTaskPatch) (*model.Task, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !isTaskOwner(t, requesterID) {
		return nil, apperr.E(apperr.ErrForbidden, "unauthorized to modify this task")
	}
	if err := applyTaskPatch(t, patch); err != nil {
		return nil, err
	}
	if patch.SharedWith != nil {
		if err := s.checkShareTargets(ctx, requesterID, *patch.SharedWith); err != nil {
			return nil, err
		}
	}

	tx, err := s.Tasks.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update task: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.Tasks.UpdateTx(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if patch.SharedWith != nil {
		if err := s.Tasks.ReplaceSharesTx(ctx, tx, taskID, *patch.SharedWith); err != nil {
			return nil, fmt.Errorf("set shares: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update task: %w", err)
	}
	return s.getTask(ctx, taskID)
}

// UpdateStatus sets the status; permitted to owner or any shared member.
// Transitions are direct-set: any status is reachable from any other.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, requesterID int64, status string) (*model.Task, error) {
	if status == "" {
		return nil, apperr.E(apperr.ErrInvalidArgument, "status is required")
	}
	if !model.ValidStatus(status) {
		return nil, apperr.E(apperr.ErrInvalidArgument,
			"invalid status. Must be one of: pending, in-progress, completed")
	}
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canViewTask(t, requesterID) {
		return nil, apperr.E(apperr.ErrForbidden, "unauthorized to update this task's status")
	}
	if err := s.Tasks.SetStatus(ctx, taskID, status); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	return s.getTask(ctx, taskID)
}

// Delete removes a task; owner only.
func (s *TaskService) Delete(ctx context.Context, taskID, requesterID int64) error {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !isTaskOwner(t, requesterID) {
		return apperr.E(apperr.ErrForbidden, "unauthorized to delete this task")
	}
	if err := s.Tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Share appends a user to the task's share set; owner only. Sharing with
// yourself, an unknown user, or an already-shared user is rejected.
func (s *TaskService) Share(ctx context.Context, taskID, ownerID, targetUserID int64) (*model.Task, error) {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !isTaskOwner(t, ownerID) {
		return nil, apperr.E(apperr.ErrForbidden, "unauthorized to modify this task")
	}
	if targetUserID == ownerID {
		return nil, apperr.E(apperr.ErrInvalidArgument, "cannot share task with yourself")
	}
	if _, err := s.Users.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("lookup share target: %w", err)
	}
	if t.SharedWithUser(targetUserID) {
		return nil, apperr.E(apperr.ErrConflict, "task already shared with this user")
	}
	if err := s.Tasks.AddShare(ctx, taskID, targetUserID); err != nil {
		return nil, fmt.Errorf("add share: %w", err)
	}
	return s.getTask(ctx, taskID)
}
