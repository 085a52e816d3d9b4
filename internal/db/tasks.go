package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/model"
	"github.com/google/uuid"
)

const dueDateFormat = "2006-01-02"

// TaskUpdate describes a partial task update. Nil fields are left
// untouched; ClearDueDate removes the due date regardless of DueDate.
type TaskUpdate struct {
	Name         *string
	CategoryID   *string
	Status       *model.Status
	Progress     *int
	DueDate      *time.Time
	ClearDueDate bool
}

// GetTasks returns all tasks ordered by creation time, newest first
func (db *DB) GetTasks() ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT id, name, category_id, status, progress, due_date, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperr.Storage("list tasks", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTasksByCategory returns tasks in a single category
func (db *DB) GetTasksByCategory(categoryID string) ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT id, name, category_id, status, progress, due_date, created_at, updated_at
		FROM tasks
		WHERE category_id = ?
		ORDER BY created_at DESC
	`, categoryID)
	if err != nil {
		return nil, apperr.Storage("list tasks by category", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns a single task by ID
func (db *DB) GetTask(id string) (*model.Task, error) {
	row := db.QueryRow(`
		SELECT id, name, category_id, status, progress, due_date, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("task", id)
	}
	if err != nil {
		return nil, apperr.Storage("get task", err)
	}
	return t, nil
}

// CreateTask creates a new task. An empty status defaults to new; the
// stored status is synced with progress (see syncStatus).
func (db *DB) CreateTask(name, categoryID string, status model.Status, progress int, dueDate *time.Time) (*model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("task name must not be empty")
	}
	if status == "" {
		status = model.StatusNew
	}
	if !status.Valid() {
		return nil, apperr.Validation("unknown task status %q", status)
	}
	if progress < 0 || progress > 100 {
		return nil, apperr.Validation("progress %d outside [0,100]", progress)
	}
	if _, err := db.GetCategory(categoryID); err != nil {
		return nil, err
	}

	status = syncStatus(status, progress)

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO tasks (id, name, category_id, status, progress, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, categoryID, status, progress, formatDueDate(dueDate), now, now)
	if err != nil {
		return nil, apperr.Storage("insert task", err)
	}

	return &model.Task{
		ID:         id,
		Name:       name,
		CategoryID: categoryID,
		Status:     status,
		Progress:   progress,
		DueDate:    normalizeDueDate(dueDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateTask applies a partial update to a task and returns the result
func (db *DB) UpdateTask(id string, upd TaskUpdate) (*model.Task, error) {
	t, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.Validation("task name must not be empty")
		}
		t.Name = name
	}
	if upd.CategoryID != nil {
		if _, err := db.GetCategory(*upd.CategoryID); err != nil {
			return nil, err
		}
		t.CategoryID = *upd.CategoryID
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperr.Validation("unknown task status %q", *upd.Status)
		}
		t.Status = *upd.Status
	}
	if upd.Progress != nil {
		if *upd.Progress < 0 || *upd.Progress > 100 {
			return nil, apperr.Validation("progress %d outside [0,100]", *upd.Progress)
		}
		t.Progress = *upd.Progress
	}
	if upd.ClearDueDate {
		t.DueDate = nil
	} else if upd.DueDate != nil {
		t.DueDate = normalizeDueDate(upd.DueDate)
	}

	t.Status = syncStatus(t.Status, t.Progress)
	t.UpdatedAt = time.Now().UTC()

	_, err = db.Exec(`
		UPDATE tasks SET name = ?, category_id = ?, status = ?, progress = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`, t.Name, t.CategoryID, t.Status, t.Progress, formatDueDate(t.DueDate), t.UpdatedAt, id)
	if err != nil {
		return nil, apperr.Storage("update task", err)
	}

	return t, nil
}

// ToggleComplete flips a task between completed and its working status.
// Progress is left as-is; a reopened task lands on in_progress when any
// progress has been made, otherwise back on new.
func (db *DB) ToggleComplete(id string) (*model.Task, error) {
	t, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}

	if t.Status == model.StatusCompleted {
		if t.Progress > 0 {
			t.Status = model.StatusInProgress
		} else {
			t.Status = model.StatusNew
		}
	} else {
		t.Status = model.StatusCompleted
	}
	t.UpdatedAt = time.Now().UTC()

	_, err = db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		t.Status, t.UpdatedAt, id)
	if err != nil {
		return nil, apperr.Storage("toggle task", err)
	}

	return t, nil
}

// DeleteTask deletes a task and all its reminders atomically. No
// reminder may ever reference a missing task.
func (db *DB) DeleteTask(id string) error {
	if _, err := db.GetTask(id); err != nil {
		return err
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM reminders WHERE task_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return apperr.Storage("delete task", err)
	}
	return nil
}

// syncStatus keeps status and progress coherent: full progress always
// means completed, partial progress promotes a fresh task to in_progress.
// Completed is never demoted here; only ToggleComplete reopens a task.
func syncStatus(status model.Status, progress int) model.Status {
	if progress == 100 {
		return model.StatusCompleted
	}
	if status == model.StatusNew && progress > 0 {
		return model.StatusInProgress
	}
	return status
}

// Helper functions

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, apperr.Storage("scan task", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row *sql.Row) (*model.Task, error) {
	return scanTaskRow(row)
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var dueDate *string

	err := s.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Status, &t.Progress,
		&dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if dueDate != nil {
		if parsed, err := time.ParseInLocation(dueDateFormat, *dueDate, time.UTC); err == nil {
			t.DueDate = &parsed
		}
	}

	return &t, nil
}

func formatDueDate(d *time.Time) interface{} {
	if d == nil {
		return nil
	}
	return d.Format(dueDateFormat)
}

func normalizeDueDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	day := model.DateOnly(*d)
	return &day
}
