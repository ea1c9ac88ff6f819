package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSqlite(t *testing.T) *db.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	dbx, err := db.Open(context.TODO(), db.DriverSQLite, "file:"+path+"?_pragma=foreign_keys(1)", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbx.Close() })
	return dbx
}

func tableExists(t *testing.T, dbx *db.DB, name string) bool {
	t.Helper()
	var count int
	err := dbx.GetContext(context.TODO(), &count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name)
	require.NoError(t, err)
	return count == 1
}

func TestMigrate(t *testing.T) {
	ctx := context.TODO()
	dbx := openSqlite(t)

	require.NoError(t, Migrate(ctx, dbx, nil))
	for _, table := range []string{"tournaments", "teams", "matches", "points_table", "migrations"} {
		assert.True(t, tableExists(t, dbx, table), "table %s", table)
	}

	// Running again is a no-op.
	require.NoError(t, Migrate(ctx, dbx, nil))

	var versions []int64
	require.NoError(t, dbx.SelectContext(ctx, &versions, "SELECT version FROM migrations"))
	assert.Equal(t, []int64{1}, versions)
}

func TestRollback(t *testing.T) {
	ctx := context.TODO()
	dbx := openSqlite(t)

	require.NoError(t, Migrate(ctx, dbx, nil))
	require.NoError(t, Rollback(ctx, dbx, nil))
	assert.False(t, tableExists(t, dbx, "points_table"))
	assert.False(t, tableExists(t, dbx, "tournaments"))

	require.Error(t, Rollback(ctx, dbx, nil))
}

func TestMigrationScriptsExist(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, "migration %q out of order", m.Name)
		for _, driver := range []string{db.DriverSQLite, db.DriverPostgres} {
			for _, direction := range []string{"up", "down"} {
				_, err := sqls.ReadFile(scriptName(m.Version, "create_tables", driver, direction))
				assert.NoError(t, err, "%s %s script for %q", driver, direction, m.Name)
			}
		}
	}
}
