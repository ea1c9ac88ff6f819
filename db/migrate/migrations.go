package migrate

import (
	"context"
	"embed"
	"fmt"

	"github.com/Dosada05/sports-event-tracker/db"
)

//go:embed *.sql
var sqls embed.FS

// Ordered oldest to newest; a migration's position is its version.
var migrations = []Migration{
	sqlMigration(1, "create tables", "create_tables"),
}

// sqlMigration builds a migration backed by the embedded
// <version>_<stem>_<driver>.<up|down>.sql pair for the connected driver.
func sqlMigration(version int64, name, stem string) Migration {
	return Migration{
		Version: version,
		Name:    name,
		Migrate: func(ctx context.Context, tx *db.Tx) error {
			return execScript(ctx, tx, scriptName(version, stem, tx.DriverName(), "up"))
		},
		Rollback: func(ctx context.Context, tx *db.Tx) error {
			return execScript(ctx, tx, scriptName(version, stem, tx.DriverName(), "down"))
		},
	}
}

func scriptName(version int64, stem, driver, direction string) string {
	return fmt.Sprintf("%04d_%s_%s.%s.sql", version, stem, driver, direction)
}

func execScript(ctx context.Context, h db.Handler, name string) error {
	script, err := sqls.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := h.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	return nil
}
