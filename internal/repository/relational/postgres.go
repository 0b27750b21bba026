package relational

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"task-approvals/internal/errors"
)

// OpenPostgres connects to PostgreSQL. An empty dsn falls back to DATABASE_URL.
func OpenPostgres(ctx context.Context, dsn string, maxConns int32) (*Repository, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, errors.NewInvalidInputError("dsn", "", "postgres DSN or DATABASE_URL required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.NewInvalidInputError("dsn", "<redacted>", err.Error())
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, storageError("connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageError("ping", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	repo, err := New(ctx, db, PostgresDialect{}, pool.Close)
	if err != nil {
		db.Close()
		pool.Close()
		return nil, err
	}
	return repo, nil
}
