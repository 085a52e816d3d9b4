// Package app is the front-end facing surface over the domain store:
// CRUD on tasks, categories and reminders plus the smart-list queries.
// It deliberately exposes no way to write notified_at — delivery state
// belongs to the daemon alone.
package app

import (
	"time"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/model"
	"github.com/dori/tasknag/internal/views"
)

// App holds the store handle and the clock used to evaluate "today"
type App struct {
	DB    *db.DB
	Clock func() time.Time
}

// New creates an application instance over an open store
func New(database *db.DB) *App {
	return &App{DB: database, Clock: time.Now}
}

// Close releases the store
func (a *App) Close() error {
	return a.DB.Close()
}

// ListTasks returns the tasks of a smart list, ordered for display
func (a *App) ListTasks(view views.View) ([]model.Task, error) {
	if !view.Valid() {
		return nil, apperr.Validation("unknown view %q", view)
	}

	tasks, err := a.DB.GetTasks()
	if err != nil {
		return nil, err
	}
	return views.Filter(tasks, view, a.Clock()), nil
}

// ListCategories returns all categories
func (a *App) ListCategories() ([]model.Category, error) {
	return a.DB.GetCategories()
}

// ListReminders returns a task's reminders, earliest first
func (a *App) ListReminders(taskID string) ([]model.Reminder, error) {
	if _, err := a.DB.GetTask(taskID); err != nil {
		return nil, err
	}
	return a.DB.GetReminders(taskID)
}

// CreateTask creates a task
func (a *App) CreateTask(name, categoryID string, status model.Status, progress int, dueDate *time.Time) (*model.Task, error) {
	return a.DB.CreateTask(name, categoryID, status, progress, dueDate)
}

// UpdateTask applies a partial update
func (a *App) UpdateTask(id string, upd db.TaskUpdate) (*model.Task, error) {
	return a.DB.UpdateTask(id, upd)
}

// DeleteTask deletes a task and its reminders
func (a *App) DeleteTask(id string) error {
	return a.DB.DeleteTask(id)
}

// ToggleComplete flips a task between completed and its working status
func (a *App) ToggleComplete(id string) (*model.Task, error) {
	return a.DB.ToggleComplete(id)
}

// CreateReminder schedules a reminder for a task
func (a *App) CreateReminder(taskID string, fireAt time.Time) (*model.Reminder, error) {
	return a.DB.CreateReminder(taskID, fireAt)
}

// UpdateReminder reschedules a reminder
func (a *App) UpdateReminder(id string, fireAt time.Time) error {
	return a.DB.UpdateReminder(id, fireAt)
}

// DeleteReminder deletes a reminder
func (a *App) DeleteReminder(id string) error {
	return a.DB.DeleteReminder(id)
}

// RemoveRemindersForTask drops all pending and delivered reminders of a
// task; used when the caller completes a task and wants it to go quiet
func (a *App) RemoveRemindersForTask(taskID string) (int, error) {
	if _, err := a.DB.GetTask(taskID); err != nil {
		return 0, err
	}
	return a.DB.DeleteRemindersForTask(taskID)
}

// CreateCategory creates a user category
func (a *App) CreateCategory(name, icon, description string) (*model.Category, error) {
	return a.DB.CreateCategory(name, icon, description)
}

// UpdateCategory updates a non-system category
func (a *App) UpdateCategory(id, name, icon, description string) error {
	return a.DB.UpdateCategory(id, name, icon, description)
}

// DeleteCategory deletes an unreferenced category
func (a *App) DeleteCategory(id string) error {
	return a.DB.DeleteCategory(id)
}

// DeleteCategoryReassign deletes a category, moving its tasks elsewhere
func (a *App) DeleteCategoryReassign(id, reassignTo string) error {
	return a.DB.DeleteCategoryReassign(id, reassignTo)
}
