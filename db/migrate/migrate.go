// Package migrate applies the versioned schema to the configured database.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/sports-event-tracker/db"
)

// MigrateFunc executes a migration step inside the migration transaction.
type MigrateFunc func(ctx context.Context, tx *db.Tx) error //nolint:revive

// Migration is a named schema version with its up and down steps.
type Migration struct {
	Version  int64
	Name     string
	Migrate  MigrateFunc
	Rollback MigrateFunc
}

// Migrations is the bookkeeping row stored per applied version.
type Migrations struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Version int64  `db:"version"`
}

func (Migrations) schema(driverName string) (string, error) {
	switch driverName {
	case db.DriverSQLite:
		return `CREATE TABLE IF NOT EXISTS migrations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				version INTEGER NOT NULL UNIQUE
			);`, nil
	case db.DriverPostgres:
		return `CREATE TABLE IF NOT EXISTS migrations (
				id SERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				version INTEGER NOT NULL UNIQUE
			);`, nil
	default:
		return "", fmt.Errorf("unknown driver %q", driverName)
	}
}

// Migrate runs every migration newer than the recorded version.
func Migrate(ctx context.Context, dbx *db.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrate"))

	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		schema, err := Migrations{}.schema(tx.DriverName())
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}

		var last Migrations
		if err := tx.GetContext(ctx, &last, tx.Rebind("SELECT id, name, version FROM migrations ORDER BY version DESC LIMIT 1")); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}

		for _, m := range migrations {
			if m.Version <= last.Version {
				continue
			}

			logger.Info("running migration", slog.Int64("version", m.Version), slog.String("name", m.Name))
			if err := m.Migrate(ctx, tx); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
			}

			if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO migrations (name, version) VALUES (?, ?)"), m.Name, m.Version); err != nil {
				return err
			}
		}

		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, dbx *db.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrate"))

	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		var last Migrations
		if err := tx.GetContext(ctx, &last, tx.Rebind("SELECT id, name, version FROM migrations ORDER BY version DESC LIMIT 1")); err != nil {
			return fmt.Errorf("there are no migrations to rollback: %w", err)
		}

		if last.Version == 0 || int64(len(migrations)) < last.Version {
			return fmt.Errorf("there are no migrations to rollback")
		}

		m := migrations[last.Version-1]
		logger.Info("rolling back migration", slog.Int64("version", m.Version), slog.String("name", m.Name))
		if err := m.Rollback(ctx, tx); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM migrations WHERE version = ?"), last.Version); err != nil {
			return err
		}

		return nil
	})
}
