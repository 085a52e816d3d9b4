package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/model"
	"github.com/google/uuid"
)

// GetCategories returns all categories, system ones first
func (db *DB) GetCategories() ([]model.Category, error) {
	rows, err := db.Query(`
		SELECT c.id, c.name, c.icon, c.description, c.is_system, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM tasks WHERE category_id = c.id AND status != 'completed') as task_count
		FROM categories c
		ORDER BY c.is_system DESC, c.name
	`)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var isSystem int
		err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &isSystem,
			&c.CreatedAt, &c.UpdatedAt, &c.TaskCount)
		if err != nil {
			return nil, apperr.Storage("scan category", err)
		}
		c.IsSystem = isSystem == 1
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetCategory returns a single category by ID
func (db *DB) GetCategory(id string) (*model.Category, error) {
	var c model.Category
	var isSystem int

	err := db.QueryRow(`
		SELECT id, name, icon, description, is_system, created_at, updated_at
		FROM categories WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &isSystem, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category", id)
	}
	if err != nil {
		return nil, apperr.Storage("get category", err)
	}

	c.IsSystem = isSystem == 1
	return &c, nil
}

// CreateCategory creates a new user category
func (db *DB) CreateCategory(name, icon, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category name must not be empty")
	}

	taken, err := db.categoryNameTaken(name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Validation("category name %q is already in use", name)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = db.Exec(`
		INSERT INTO categories (id, name, icon, description, is_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, id, name, icon, description, now, now)
	if err != nil {
		return nil, apperr.Storage("insert category", err)
	}

	return &model.Category{
		ID:          id,
		Name:        name,
		Icon:        icon,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateCategory updates a non-system category
func (db *DB) UpdateCategory(id, name, icon, description string) error {
	c, err := db.GetCategory(id)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return apperr.Invariant("system category %q cannot be renamed", c.Name)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("category name must not be empty")
	}

	taken, err := db.categoryNameTaken(name, id)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validation("category name %q is already in use", name)
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
		UPDATE categories SET name = ?, icon = ?, description = ?, updated_at = ? WHERE id = ?
	`, name, icon, description, now, id)
	if err != nil {
		return apperr.Storage("update category", err)
	}
	return nil
}

// DeleteCategory deletes a category that no task references. Fails with a
// conflict error if tasks still point at it; use DeleteCategoryReassign to
// move them elsewhere instead.
func (db *DB) DeleteCategory(id string) error {
	c, err := db.GetCategory(id)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return apperr.Invariant("system category %q cannot be deleted", c.Name)
	}

	count, err := db.CategoryTaskCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("category %q still has %d task(s)", c.Name, count)
	}

	if _, err := db.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return apperr.Storage("delete category", err)
	}
	return nil
}

// DeleteCategoryReassign deletes a category and moves its tasks to
// reassignTo in the same transaction
func (db *DB) DeleteCategoryReassign(id, reassignTo string) error {
	c, err := db.GetCategory(id)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return apperr.Invariant("system category %q cannot be deleted", c.Name)
	}
	if id == reassignTo {
		return apperr.Validation("cannot reassign tasks to the category being deleted")
	}
	if _, err := db.GetCategory(reassignTo); err != nil {
		return err
	}

	now := time.Now().UTC()
	err = db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE tasks SET category_id = ?, updated_at = ? WHERE category_id = ?`,
			reassignTo, now, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM categories WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return apperr.Storage("delete category with reassign", err)
	}
	return nil
}

// CategoryTaskCount returns the number of tasks referencing a category
func (db *DB) CategoryTaskCount(id string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE category_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, apperr.Storage("count category tasks", err)
	}
	return count, nil
}

func (db *DB) categoryNameTaken(name, excludeID string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM categories WHERE name = ? AND id != ?`,
		name, excludeID).Scan(&count)
	if err != nil {
		return false, apperr.Storage("check category name", err)
	}
	return count > 0, nil
}
