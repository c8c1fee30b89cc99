package model

import "time"

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
)

// TaskCategories is the closed category enum.
var TaskCategories = []string{"Work", "Personal", "Study", "Health", "Other"}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

func ValidCategory(c string) bool {
	for _, v := range TaskCategories {
		if c == v {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Task struct {
	TaskID      int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	SharedWith  []int64    `json:"sharedWith"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// SharedWithUser reports whether the task is shared with the given user.
func (t *Task) SharedWithUser(userID int64) bool {
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}
