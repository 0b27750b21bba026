// Package schema bootstraps the relational tables. Every statement is
// idempotent, so applying the schema to an existing database is a no-op.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed *.sql
var schemaFS embed.FS

// Statements returns the DDL statements for the named dialect in file order.
func Statements(dialect string) ([]string, error) {
	data, err := schemaFS.ReadFile(dialect + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}

	var statements []string
	for _, stmt := range strings.Split(string(data), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

// Apply creates any missing tables and indexes inside one transaction.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	statements, err := Statements(dialect)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply schema statement %q: %w", firstLine(stmt), err)
		}
	}

	return tx.Commit()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
