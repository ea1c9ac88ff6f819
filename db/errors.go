package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrRecordNotFound is returned when a record is not found.
var ErrRecordNotFound = errors.New("record not found")

// Constraint classifies a constraint violation reported by either driver.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintUnique
	ConstraintForeignKey
	ConstraintCheck
	ConstraintOther
)

// WrapError replaces sql.ErrNoRows with ErrRecordNotFound and leaves other errors untouched.
func WrapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}

// ClassifyConstraint reports which kind of constraint err violates, if any.
// The postgres constraint name is returned when known.
func ClassifyConstraint(err error) (Constraint, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ConstraintUnique, pqErr.Constraint
		case "23503":
			return ConstraintForeignKey, pqErr.Constraint
		case "23514":
			return ConstraintCheck, pqErr.Constraint
		}
		if pqErr.Code.Class() == "23" {
			return ConstraintOther, pqErr.Constraint
		}
		return ConstraintNone, ""
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ConstraintUnique, ""
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ConstraintForeignKey, ""
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return ConstraintCheck, ""
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return ConstraintOther, ""
		}
	}

	return ConstraintNone, ""
}
