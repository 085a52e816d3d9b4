package model

import (
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known task statuses
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a todo item
type Task struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CategoryID string     `json:"category_id"`
	Status     Status     `json:"status"`
	Progress   int        `json:"progress"` // 0-100
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsCompleted returns true if the task is done
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue returns true if the task's due date is before today.
// Due dates have calendar-day granularity, so "today" is compared at
// midnight, not wall clock.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(DateOnly(today))
}

// IsDueToday returns true if the task is due today
func (t *Task) IsDueToday(today time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Equal(DateOnly(today))
}

// DateOnly truncates t to midnight UTC, the granularity due dates are
// stored and compared at
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
