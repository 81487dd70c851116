// Package storagetest provides a migrated embedded database for repository and service tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"librarycatalog/internal/storage"
)

// NewDB returns an empty, migrated SQLite-backed storage.DB living in the test's temp dir.
func NewDB(t testing.TB) storage.DB {
	t.Helper()

	db, closeDB, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(closeDB)

	require.NoError(t, storage.Migrate(context.Background(), db))

	return db
}
