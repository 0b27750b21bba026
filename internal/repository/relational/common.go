package relational

import (
	"context"
	"database/sql"
	stderrors "errors"

	"task-approvals/internal/errors"
)

// execer and querier are satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// storageError tags a driver error with the step that failed
func storageError(step string, err error) error {
	return errors.NewStorageError(step, err)
}

// requireTaskRow turns a statement that touched no row into NotFound for
// taskName. Every guarded write matches the task row at most once.
func requireTaskRow(result sql.Result, taskName string) error {
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return storageError("count affected rows", err)
	case n == 0:
		return errors.NewNotFoundError("task", taskName)
	default:
		return nil
	}
}

// execOnTask runs a write that must hit the row of taskName
func execOnTask(ctx context.Context, db execer, query string, taskName string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("write task "+taskName, err)
	}
	return requireTaskRow(result, taskName)
}

// queryTaskRows runs a task/comment join and scans every row.
// step names the read in storage errors.
func queryTaskRows(ctx context.Context, db querier, step string, query string, args ...interface{}) ([]*TaskRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(step, err)
	}
	defer rows.Close()

	scanned, err := ScanTaskRows(rows)
	if err != nil {
		return nil, storageError("scan "+step, err)
	}
	return scanned, nil
}

// taskExists looks up the task row inside an open transaction
func taskExists(ctx context.Context, db querier, query string, taskName string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, taskName).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageError("look up task "+taskName, err)
	}
	return true, nil
}
