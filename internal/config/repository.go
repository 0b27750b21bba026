package config

import (
	"context"
	"fmt"

	"task-approvals/internal/repository"
	"task-approvals/internal/repository/filestore"
	"task-approvals/internal/repository/relational"
)

// CreateRepository opens the backend selected by config.Storage.Backend
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	switch config.Storage.Backend {
	case BackendFile:
		store, err := filestore.New(filestore.Options{
			Root:           config.Storage.Root,
			Database:       config.Storage.Database,
			DirPermissions: config.GetDirPermissions(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return store, nil

	case BackendSQLite:
		repo, err := relational.OpenSQLite(ctx, config.GetSQLitePath(), config.GetDirPermissions())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	case BackendPostgres:
		repo, err := relational.OpenPostgres(ctx, config.Storage.DSN, config.Storage.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil

	default:
		return nil, &ConfigError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", config.Storage.Backend)}
	}
}
