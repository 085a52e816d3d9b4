package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err, "failed to open database")

	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsSeedSystemCategories(t *testing.T) {
	db := openTestDB(t)

	categories, err := db.GetCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)

	byID := map[string]bool{}
	for _, c := range categories {
		byID[c.ID] = c.IsSystem
	}
	require.True(t, byID["personal"], "personal should be a system category")
	require.True(t, byID["work"], "work should be a system category")
}
