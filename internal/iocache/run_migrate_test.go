package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/learnstat/schema"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateRunsNoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.True(t, tableExists(t, dbPath, dayPointsTable))
	assert.True(t, tableExists(t, dbPath, migrationsTable))

	// Second run is a no-op
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// Step down to version 1 drops day points only
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.False(t, tableExists(t, dbPath, dayPointsTable))

	// Full rollback
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, runsTable))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 3))
	assert.True(t, tableExists(t, dbPath, dayPointsTable))
}

func TestMigrateRunsAfterStoreCreate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Tables created by the store are adopted without losing rows
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	store, err = NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
}

func TestMigrationsDir(t *testing.T) {
	assert.Equal(t, "migrations/sqlite", migrationsDir(schema.SQLiteBackend))
	assert.Equal(t, "migrations/mysql", migrationsDir(schema.MySQLBackend))
	assert.Equal(t, "migrations/postgres", migrationsDir(schema.PostgreSQLBackend))

	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir(migrationsDir(backend))
		require.NoError(t, err)
		assert.Len(t, entries, 6, "every backend ships three up/down pairs")
	}
}
