package model

import (
	"time"
)

// Reminder represents a scheduled point in time at which the owner of a
// task should be notified. NotifiedAt stays nil until the daemon delivers
// the notification; once set it is never cleared or changed.
type Reminder struct {
	ID         string     `json:"id"`
	TaskID     string     `json:"task_id"`
	FireAt     time.Time  `json:"fire_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
}

// Notified returns true if this reminder has already been delivered
func (r *Reminder) Notified() bool {
	return r.NotifiedAt != nil
}

// Due returns true if the reminder should fire at or before asOf and has
// not been delivered yet
func (r *Reminder) Due(asOf time.Time) bool {
	return !r.Notified() && !r.FireAt.After(asOf)
}
