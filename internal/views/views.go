// Package views derives the smart lists (All, Upcoming, Past Due,
// Completed) from a snapshot of tasks. It holds no state and never
// touches the store; callers pass in the tasks and the date that counts
// as "today".
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/dori/tasknag/internal/model"
)

// View identifies a smart list
type View string

const (
	ViewAll       View = "all"
	ViewUpcoming  View = "upcoming"
	ViewPastDue   View = "pastdue"
	ViewCompleted View = "completed"
)

// Valid reports whether v names a known view
func (v View) Valid() bool {
	switch v {
	case ViewAll, ViewUpcoming, ViewPastDue, ViewCompleted:
		return true
	}
	return false
}

// Filter returns the tasks belonging to a view, ordered by due date
// ascending with undated tasks last, ties broken by name. The today
// argument is truncated to a calendar date before comparing.
func Filter(tasks []model.Task, view View, today time.Time) []model.Task {
	day := model.DateOnly(today)

	var out []model.Task
	for _, t := range tasks {
		if matches(t, view, day) {
			out = append(out, t)
		}
	}

	sortTasks(out)
	return out
}

func matches(t model.Task, view View, today time.Time) bool {
	switch view {
	case ViewUpcoming:
		return t.DueDate != nil && !t.DueDate.Before(today) && t.Status != model.StatusCompleted
	case ViewPastDue:
		return t.DueDate != nil && t.DueDate.Before(today) && t.Status != model.StatusCompleted
	case ViewCompleted:
		return t.Status == model.StatusCompleted
	default: // ViewAll
		return true
	}
}

func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			// fall through to name tiebreak
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
