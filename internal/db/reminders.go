package db

import (
	"database/sql"
	"time"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/model"
	"github.com/google/uuid"
)

// DueReminder pairs a due reminder with its owning task for dispatch
type DueReminder struct {
	Reminder model.Reminder
	Task     model.Task
}

// GetReminders returns all reminders for a task, earliest first
func (db *DB) GetReminders(taskID string) ([]model.Reminder, error) {
	rows, err := db.Query(`
		SELECT id, task_id, fire_at, notified_at
		FROM reminders
		WHERE task_id = ?
		ORDER BY fire_at
	`, taskID)
	if err != nil {
		return nil, apperr.Storage("list reminders", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, apperr.Storage("scan reminder", err)
		}
		reminders = append(reminders, *r)
	}

	return reminders, rows.Err()
}

// GetReminder returns a single reminder by ID
func (db *DB) GetReminder(id string) (*model.Reminder, error) {
	row := db.QueryRow(`
		SELECT id, task_id, fire_at, notified_at
		FROM reminders WHERE id = ?
	`, id)

	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("reminder", id)
	}
	if err != nil {
		return nil, apperr.Storage("get reminder", err)
	}
	return r, nil
}

// CreateReminder creates a reminder for an existing task
func (db *DB) CreateReminder(taskID string, fireAt time.Time) (*model.Reminder, error) {
	if _, err := db.GetTask(taskID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	fireAt = fireAt.UTC()

	_, err := db.Exec(`
		INSERT INTO reminders (id, task_id, fire_at) VALUES (?, ?, ?)
	`, id, taskID, fireAt)
	if err != nil {
		return nil, apperr.Storage("insert reminder", err)
	}

	return &model.Reminder{ID: id, TaskID: taskID, FireAt: fireAt}, nil
}

// UpdateReminder changes when a reminder fires
func (db *DB) UpdateReminder(id string, fireAt time.Time) error {
	if _, err := db.GetReminder(id); err != nil {
		return err
	}

	_, err := db.Exec(`UPDATE reminders SET fire_at = ? WHERE id = ?`, fireAt.UTC(), id)
	if err != nil {
		return apperr.Storage("update reminder", err)
	}
	return nil
}

// DeleteReminder deletes a reminder
func (db *DB) DeleteReminder(id string) error {
	if _, err := db.GetReminder(id); err != nil {
		return err
	}

	if _, err := db.Exec(`DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return apperr.Storage("delete reminder", err)
	}
	return nil
}

// DeleteRemindersForTask drops every reminder of a task and returns how
// many were removed
func (db *DB) DeleteRemindersForTask(taskID string) (int, error) {
	res, err := db.Exec(`DELETE FROM reminders WHERE task_id = ?`, taskID)
	if err != nil {
		return 0, apperr.Storage("delete task reminders", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DueReminders returns undelivered reminders with fire_at <= asOf joined
// with their owning task, earliest first. Reminders whose task is already
// completed are skipped; completing a task silences its pending reminders
// without deleting them.
func (db *DB) DueReminders(asOf time.Time) ([]DueReminder, error) {
	rows, err := db.Query(`
		SELECT r.id, r.task_id, r.fire_at, r.notified_at,
		       t.id, t.name, t.category_id, t.status, t.progress, t.due_date, t.created_at, t.updated_at
		FROM reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE r.fire_at <= ? AND r.notified_at IS NULL AND t.status != 'completed'
		ORDER BY r.fire_at
	`, asOf.UTC())
	if err != nil {
		return nil, apperr.Storage("list due reminders", err)
	}
	defer rows.Close()

	var due []DueReminder
	for rows.Next() {
		var d DueReminder
		var notifiedAt sql.NullTime
		var dueDate *string

		err := rows.Scan(
			&d.Reminder.ID, &d.Reminder.TaskID, &d.Reminder.FireAt, &notifiedAt,
			&d.Task.ID, &d.Task.Name, &d.Task.CategoryID, &d.Task.Status, &d.Task.Progress,
			&dueDate, &d.Task.CreatedAt, &d.Task.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.Storage("scan due reminder", err)
		}

		if notifiedAt.Valid {
			d.Reminder.NotifiedAt = &notifiedAt.Time
		}
		if dueDate != nil {
			if parsed, err := time.ParseInLocation(dueDateFormat, *dueDate, time.UTC); err == nil {
				d.Task.DueDate = &parsed
			}
		}

		due = append(due, d)
	}

	return due, rows.Err()
}

// MarkNotified records delivery of a reminder. The update is a
// compare-and-set on notified_at IS NULL, so concurrent callers and
// restarted daemons cannot both claim the same reminder: exactly one
// caller sees true, everyone else gets false and must not re-deliver.
func (db *DB) MarkNotified(id string, at time.Time) (bool, error) {
	res, err := db.Exec(`
		UPDATE reminders SET notified_at = ? WHERE id = ? AND notified_at IS NULL
	`, at.UTC(), id)
	if err != nil {
		return false, apperr.Storage("mark notified", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Storage("mark notified", err)
	}
	if n == 1 {
		return true, nil
	}

	// Distinguish "already notified" from "no such reminder"
	if _, err := db.GetReminder(id); err != nil {
		return false, err
	}
	return false, nil
}

// RecordDelivery appends one per-channel delivery attempt to the
// delivery log. Diagnostic only; the at-most-once guarantee rides on
// MarkNotified, not on this table.
func (db *DB) RecordDelivery(reminderID, channel, status, detail string) error {
	_, err := db.Exec(`
		INSERT INTO delivery_log (reminder_id, channel, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, reminderID, channel, status, detail, time.Now().UTC())
	if err != nil {
		return apperr.Storage("record delivery", err)
	}
	return nil
}

func scanReminder(s scanner) (*model.Reminder, error) {
	var r model.Reminder
	var notifiedAt sql.NullTime

	if err := s.Scan(&r.ID, &r.TaskID, &r.FireAt, &notifiedAt); err != nil {
		return nil, err
	}
	if notifiedAt.Valid {
		r.NotifiedAt = &notifiedAt.Time
	}
	return &r, nil
}
