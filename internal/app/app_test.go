package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/model"
	"github.com/dori/tasknag/internal/views"
)

func openTestApp(t *testing.T) *App {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return New(database)
}

func TestListTasksUsesInjectedClock(t *testing.T) {
	a := openTestApp(t)
	a.Clock = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	yesterday := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	task, err := a.CreateTask("Write report", "work", model.StatusInProgress, 10, &yesterday)
	require.NoError(t, err)

	pastDue, err := a.ListTasks(views.ViewPastDue)
	require.NoError(t, err)
	require.Len(t, pastDue, 1)

	upcoming, err := a.ListTasks(views.ViewUpcoming)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	// Completing it moves the task from Past Due to Completed
	_, err = a.ToggleComplete(task.ID)
	require.NoError(t, err)

	pastDue, err = a.ListTasks(views.ViewPastDue)
	require.NoError(t, err)
	assert.Empty(t, pastDue)

	completed, err := a.ListTasks(views.ViewCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestListTasksRejectsUnknownView(t *testing.T) {
	a := openTestApp(t)

	_, err := a.ListTasks(views.View("bogus"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRemoveRemindersForTask(t *testing.T) {
	a := openTestApp(t)

	task, err := a.CreateTask("Noisy", "personal", model.StatusNew, 0, nil)
	require.NoError(t, err)

	_, err = a.CreateReminder(task.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = a.CreateReminder(task.ID, time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	n, err := a.RemoveRemindersForTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reminders, err := a.ListReminders(task.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	_, err = a.RemoveRemindersForTask("missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
