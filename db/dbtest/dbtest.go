// Package dbtest provides a migrated SQLite database for tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/db/migrate"
)

// SQLiteDSN returns a DSN for a SQLite file with foreign keys enforced.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// OpenSqlite opens a new temp SQLite database with the schema applied.
// The database is closed when the test is done using tb.Cleanup.
// If ctx is nil, context.TODO() is used.
func OpenSqlite(ctx context.Context, tb testing.TB) *db.DB {
	tb.Helper()
	if ctx == nil {
		ctx = context.TODO()
	}

	dbpath := filepath.Join(tb.TempDir(), "test.db")
	dbx, err := db.Open(ctx, db.DriverSQLite, SQLiteDSN(dbpath), nil)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})

	if err := migrate.Migrate(ctx, dbx, nil); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return dbx
}
