package relational

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"task-approvals/internal/errors"

	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every pooled connection through the DSN.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

// OpenSQLite opens (creating if needed) the database file at dbPath.
func OpenSQLite(ctx context.Context, dbPath string, dirPerm os.FileMode) (*Repository, error) {
	if dbPath == "" {
		return nil, errors.NewInvalidInputError("path", dbPath, "database path cannot be empty")
	}
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), dirPerm); err != nil {
		return nil, errors.NewStorageError("create database directory", err).WithContext("path", dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+sqlitePragmas)
	if err != nil {
		return nil, storageError("open database", err)
	}
	// A single connection serializes writers, so concurrent transactions
	// queue in the pool instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	repo, err := New(ctx, db, SQLiteDialect{}, nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}
