package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/model"
)

func TestCreateCategory(t *testing.T) {
	db := openTestDB(t)

	c, err := db.CreateCategory("Errands", "cart", "Out-of-house chores")
	require.NoError(t, err)
	assert.False(t, c.IsSystem)

	// Duplicate name is rejected
	_, err = db.CreateCategory("Errands", "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = db.CreateCategory("  ", "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSystemCategoryIsProtected(t *testing.T) {
	db := openTestDB(t)

	err := db.DeleteCategory("personal")
	assert.True(t, apperr.IsKind(err, apperr.KindInvariant))

	err = db.DeleteCategoryReassign("work", "personal")
	assert.True(t, apperr.IsKind(err, apperr.KindInvariant))

	err = db.UpdateCategory("work", "Job", "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvariant))
}

func TestStrictDeleteConflictsWhenReferenced(t *testing.T) {
	db := openTestDB(t)

	c, err := db.CreateCategory("Projects", "", "")
	require.NoError(t, err)

	_, err = db.CreateTask("Write report", c.ID, model.StatusNew, 0, nil)
	require.NoError(t, err)

	err = db.DeleteCategory(c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Category and task must both still exist
	_, err = db.GetCategory(c.ID)
	assert.NoError(t, err)
}

func TestDeleteCategoryReassign(t *testing.T) {
	db := openTestDB(t)

	c, err := db.CreateCategory("Projects", "", "")
	require.NoError(t, err)

	task, err := db.CreateTask("Write report", c.ID, model.StatusNew, 0, nil)
	require.NoError(t, err)

	require.NoError(t, db.DeleteCategoryReassign(c.ID, model.DefaultCategoryID))

	moved, err := db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryID, moved.CategoryID)

	_, err = db.GetCategory(c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteEmptyCategory(t *testing.T) {
	db := openTestDB(t)

	c, err := db.CreateCategory("Ephemeral", "", "")
	require.NoError(t, err)

	require.NoError(t, db.DeleteCategory(c.ID))

	_, err = db.GetCategory(c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateCategory(t *testing.T) {
	db := openTestDB(t)

	c, err := db.CreateCategory("Hobbies", "", "")
	require.NoError(t, err)

	require.NoError(t, db.UpdateCategory(c.ID, "Side projects", "wrench", "Evening hacking"))

	got, err := db.GetCategory(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Side projects", got.Name)
	assert.Equal(t, "wrench", got.Icon)

	// Cannot collide with an existing name
	err = db.UpdateCategory(c.ID, "Work", "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCategoryTaskCount(t *testing.T) {
	db := openTestDB(t)

	_, err := db.CreateTask("One", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)
	_, err = db.CreateTask("Two", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)

	count, err := db.CategoryTaskCount("work")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
