package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 8, 31, 18, 45, 0, 0, time.UTC)
	yesterday := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	task := Task{Name: "report", Status: StatusInProgress, DueDate: &yesterday}
	assert.True(t, task.IsOverdue(today))

	task.Status = StatusCompleted
	assert.False(t, task.IsOverdue(today), "completed tasks are never overdue")

	task = Task{Name: "undated", Status: StatusNew}
	assert.False(t, task.IsOverdue(today))

	dueToday := DateOnly(today)
	task = Task{Name: "today", Status: StatusNew, DueDate: &dueToday}
	assert.False(t, task.IsOverdue(today), "due today is not overdue")
	assert.True(t, task.IsDueToday(today))
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	r := Reminder{FireAt: now.Add(-time.Minute)}
	assert.True(t, r.Due(now))

	r.FireAt = now
	assert.True(t, r.Due(now), "fire_at == now counts as due")

	r.FireAt = now.Add(time.Minute)
	assert.False(t, r.Due(now))

	sent := now.Add(-time.Hour)
	r = Reminder{FireAt: now.Add(-time.Hour), NotifiedAt: &sent}
	assert.False(t, r.Due(now), "delivered reminders are no longer due")
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusNew.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("archived").Valid())
}
