package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/learnstat/schema"
)

func newTempCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore("test_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*CacheStoreImpl)
	require.True(t, ok)
	return impl
}

func TestCacheStoreSQLite(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		store := newTempCacheStore(t)
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get", func(t *testing.T) {
		store := newTempCacheStore(t)
		require.NoError(t, store.Set("k1", []byte(`{"period_data":[]}`), 1, 1717200000))

		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"period_data":[]}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1717200000), ts)
	})

	t.Run("set replaces existing", func(t *testing.T) {
		store := newTempCacheStore(t)
		require.NoError(t, store.Set("k1", []byte("old"), 1, 100))
		require.NoError(t, store.Set("k1", []byte("new"), 2, 200))

		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(200), ts)
	})

	t.Run("status", func(t *testing.T) {
		store := newTempCacheStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 100))
		require.NoError(t, store.Set("b", []byte("2"), 1, 300))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(300), status.LastEntryTime.Unix())
		assert.Equal(t, int64(100), status.OldestEntryTime.Unix())
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewCacheStore("test_cache", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("k", []byte("v"), 1, 1))
		value, _, _, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), value)
	})
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("test_key")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789))

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Set is a no-op on the none backend")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		backend schema.DatabaseBackend
		connStr string
		errMsg  string
	}{
		{"bad table name", "drop table;", schema.SQLiteBackend, ":memory:", "invalid table name"},
		{"table name starting with digit", "1cache", schema.SQLiteBackend, ":memory:", "invalid table name"},
		{"unknown backend", "cache", schema.DatabaseBackend("oracle"), "", "unsupported cache backend"},
		{"unwritable sqlite path", "cache", schema.SQLiteBackend, filepath.Join("/nonexistent", "dir", "cache.db"), "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCacheStore(tt.table, tt.backend, tt.connStr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid leading underscore", "_cache", false},
		{"empty", "", true},
		{"contains space", "bad table", true},
		{"contains semicolon", "t;drop", true},
		{"contains quote", `t"x`, true},
		{"too long", "a123456789012345678901234567890123456789012345678901234567890123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLHelpers(t *testing.T) {
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))

	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))

	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverName(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := driverName(schema.NoneBackend)
	assert.Error(t, err)
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("c", schema.MySQLBackend), "VARCHAR(255) PRIMARY KEY")
	assert.Contains(t, getCreateTableQuery("c", schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery("c", schema.SQLiteBackend), "BLOB")
}
