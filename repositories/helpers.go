package repositories

import (
	"database/sql"
	"fmt"

	"github.com/Dosada05/sports-event-tracker/db"
)

// SQLExecutor is satisfied by *db.DB and *db.Tx; passing nil to a repository
// method runs the statement on the repository's own handle.
type SQLExecutor = db.Handler

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func pickExecutor(main *db.DB, exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return main
}
