package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/model"
)

func TestValidateTaskFields(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)

	if err := validateTaskFields("Buy groceries", "milk and eggs", "Personal", "medium", "pending", due); err != nil {
		t.Fatalf("validateTaskFields() on valid input error = %v", err)
	}

	tests := []struct {
		name        string
		title       string
		description string
		category    string
		priority    string
		status      string
		due         time.Time
	}{
		{"empty title", "", "", "Work", "high", "pending", due},
		{"whitespace title", "   ", "", "Work", "high", "pending", due},
		{"title too long", strings.Repeat("a", 101), "", "Work", "high", "pending", due},
		{"description too long", "ok", strings.Repeat("b", 501), "Work", "high", "pending", due},
		{"unknown category", "ok", "", "Chores", "high", "pending", due},
		{"unknown priority", "ok", "", "Work", "urgent", "pending", due},
		{"unknown status", "ok", "", "Work", "high", "done", due},
		{"zero due date", "ok", "", "Work", "high", "pending", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTaskFields(tt.title, tt.description, tt.category, tt.priority, tt.status, tt.due)
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Errorf("validateTaskFields() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestTaskAccessMatrix(t *testing.T) {
	const (
		owner    int64 = 1
		shared   int64 = 2
		stranger int64 = 3
	)
	task := &model.Task{TaskID: 10, UserID: owner, SharedWith: []int64{shared}}

	tests := []struct {
		name      string
		requester int64
		canView   bool
		canOwn    bool
	}{
		{"owner", owner, true, true},
		{"shared member", shared, true, false},
		{"stranger", stranger, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canViewTask(task, tt.requester); got != tt.canView {
				t.Errorf("canViewTask() = %v, want %v (read/status surface)", got, tt.canView)
			}
			if got := isTaskOwner(task, tt.requester); got != tt.canOwn {
				t.Errorf("isTaskOwner() = %v, want %v (edit/delete/share surface)", got, tt.canOwn)
			}
		})
	}
}

func TestValidateTaskFields_BoundaryLengths(t *testing.T) {
	due := time.Now().Add(time.Hour)

	if err := validateTaskFields(strings.Repeat("a", 100), strings.Repeat("b", 500), "Other", "low", "completed", due); err != nil {
		t.Errorf("validateTaskFields() at max lengths error = %v, want nil", err)
	}
}

// A self-share must be rejected before the service touches storage, so
// the check runs against nil repositories here.
func TestTaskService_CheckShareTargetsSelf(t *testing.T) {
	s := NewTaskService(nil, nil)

	err := s.checkShareTargets(context.Background(), 7, []int64{7})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("checkShareTargets() error = %v, want ErrInvalidArgument", err)
	}

	if err := s.checkShareTargets(context.Background(), 7, nil); err != nil {
		t.Errorf("checkShareTargets() with empty set error = %v, want nil", err)
	}
}

func TestApplyTaskPatch(t *testing.T) {
	base := func() *model.Task {
		return &model.Task{
			TaskID:   10,
			UserID:   1,
			Title:    "Buy groceries",
			Category: "Personal",
			Priority: "medium",
			Status:   "pending",
			DueDate:  time.Now().Add(48 * time.Hour),
		}
	}
	str := func(s string) *string { return &s }

	task := base()
	if err := applyTaskPatch(task, UpdateTaskPatch{Title: str("  Buy more groceries  ")}); err != nil {
		t.Fatalf("applyTaskPatch() error = %v", err)
	}
	if task.Title != "Buy more groceries" {
		t.Errorf("Title = %q, want trimmed patch value", task.Title)
	}
	if task.Category != "Personal" {
		t.Errorf("Category = %q, want unset field left alone", task.Category)
	}

	tests := []struct {
		name  string
		patch UpdateTaskPatch
	}{
		{"title too long", UpdateTaskPatch{Title: str(strings.Repeat("a", 101))}},
		{"unknown status", UpdateTaskPatch{Status: str("done")}},
		{"unknown priority", UpdateTaskPatch{Priority: str("urgent")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := applyTaskPatch(base(), tt.patch); !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Errorf("applyTaskPatch() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
