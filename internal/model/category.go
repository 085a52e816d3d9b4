package model

import (
	"time"
)

// DefaultCategoryID is the seeded category tasks fall back to when their
// own category is deleted with reassignment.
const DefaultCategoryID = "personal"

// Category represents a task category
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"` // opaque display token
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed fields (not stored)
	TaskCount int `json:"task_count,omitempty"`
}

// IsDefault returns true if this is the default reassignment target
func (c *Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}
