// Package db owns the database handle, transactions and schema migrations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"   // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the database handle shared by the repositories.
type DB struct {
	*sqlx.DB
	logger *slog.Logger
}

// Tx is a database transaction.
type Tx struct {
	*sqlx.Tx
	logger *slog.Logger
}

var (
	_ Handler = (*DB)(nil)
	_ Handler = (*Tx)(nil)
)

// Open opens a database handle for the given driver without checking connectivity.
func Open(ctx context.Context, driverName string, dsn string, logger *slog.Logger) (*DB, error) {
	switch driverName {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown driver %q", driverName)
	}

	dbx, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	if driverName == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		dbx.SetMaxOpenConns(1)
	} else {
		dbx.SetMaxOpenConns(25)
		dbx.SetMaxIdleConns(25)
		dbx.SetConnMaxLifetime(5 * time.Minute)
	}

	return &DB{DB: dbx, logger: logger}, nil
}

// Connect opens the database and verifies the connection within timeout.
func Connect(driverName, dsn string, timeout time.Duration, logger *slog.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d, err := Open(ctx, driverName, dsn, logger)
	if err != nil {
		return nil, err
	}

	if err := d.PingContext(ctx); err != nil {
		if closeErr := d.Close(); closeErr != nil && logger != nil {
			logger.Error("failed to close database handle after ping error", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return d, nil
}

// TransactionContext runs fn inside a transaction bound to one connection.
// The transaction is rolled back if fn returns an error or panics.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: txx, logger: d.logger}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		if errors.Is(rerr, sql.ErrTxDone) {
			return err
		}
		return fmt.Errorf("failed to rollback: %w: %w", err, rerr)
	}
	return err
}
