package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "approvals", cfg.Storage.Database)
	assert.NotEmpty(t, cfg.Storage.Root)
	assert.Equal(t, uint32(0755), cfg.Storage.DirPermissions)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Validation.TaskNameMinLength)
	assert.Equal(t, 255, cfg.Validation.TaskNameMaxLength)
	assert.False(t, cfg.Access.RestrictReads)
	assert.Equal(t, LogFormatText, cfg.Application.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("TA_STORAGE_BACKEND", "sqlite")
	t.Setenv("TA_STORAGE_ROOT", "/var/lib/ta")
	t.Setenv("TA_STORAGE_DATABASE", "team-a")
	t.Setenv("TA_STORAGE_DIR_PERMISSIONS", "0700")
	t.Setenv("TA_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TA_SERVER_READ_TIMEOUT", "3s")
	t.Setenv("TA_SERVER_WRITE_TIMEOUT", "4s")
	t.Setenv("TA_VALIDATION_TASK_NAME_MAX", "64")
	t.Setenv("TA_ACCESS_RESTRICT_READS", "true")
	t.Setenv("TA_APP_VERBOSE", "1")
	t.Setenv("TA_LOG_FORMAT", "json")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/ta", cfg.Storage.Root)
	assert.Equal(t, "team-a", cfg.Storage.Database)
	assert.Equal(t, uint32(0700), cfg.Storage.DirPermissions)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 64, cfg.Validation.TaskNameMaxLength)
	assert.True(t, cfg.Access.RestrictReads)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, LogFormatJSON, cfg.Application.LogFormat)
	assert.Equal(t, "/var/lib/ta/team-a.db", cfg.GetSQLitePath())
}

func TestConfig_LoadFromEnvironment_DSN(t *testing.T) {
	tests := []struct {
		name        string
		taDSN       string
		databaseURL string
		expected    string
	}{
		{name: "should prefer TA_STORAGE_DSN", taDSN: "postgres://a", databaseURL: "postgres://b", expected: "postgres://a"},
		{name: "should fall back to DATABASE_URL", databaseURL: "postgres://b", expected: "postgres://b"},
		{name: "should leave DSN empty when neither is set", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TA_STORAGE_DSN", tt.taDSN)
			t.Setenv("DATABASE_URL", tt.databaseURL)

			cfg := NewConfig()
			require.NoError(t, cfg.LoadFromEnvironment())
			assert.Equal(t, tt.expected, cfg.Storage.DSN)
		})
	}
}

func TestConfig_LoadFromEnvironment_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("TA_SERVER_READ_TIMEOUT", "soon")
	t.Setenv("TA_VALIDATION_TASK_NAME_MAX", "many")
	t.Setenv("TA_ACCESS_RESTRICT_READS", "maybe")
	t.Setenv("TA_STORAGE_DIR_PERMISSIONS", "rwx")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	defaults := NewConfig()
	assert.Equal(t, defaults.Server.ReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, defaults.Validation.TaskNameMaxLength, cfg.Validation.TaskNameMaxLength)
	assert.Equal(t, defaults.Access.RestrictReads, cfg.Access.RestrictReads)
	assert.Equal(t, defaults.Storage.DirPermissions, cfg.Storage.DirPermissions)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *Config)
		expectedField string
	}{
		{name: "should accept defaults", mutate: func(c *Config) {}},
		{name: "should accept sqlite backend", mutate: func(c *Config) { c.Storage.Backend = BackendSQLite }},
		{name: "should accept postgres with DSN", mutate: func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Storage.DSN = "postgres://localhost/approvals"
		}},
		{name: "should reject unknown backend", mutate: func(c *Config) { c.Storage.Backend = "mongo" }, expectedField: "storage.backend"},
		{name: "should reject empty root", mutate: func(c *Config) { c.Storage.Root = "" }, expectedField: "storage.root"},
		{name: "should reject empty database", mutate: func(c *Config) { c.Storage.Database = "" }, expectedField: "storage.database"},
		{name: "should reject database with slash", mutate: func(c *Config) { c.Storage.Database = "a/b" }, expectedField: "storage.database"},
		{name: "should reject database with query characters", mutate: func(c *Config) { c.Storage.Database = "a?mode=ro" }, expectedField: "storage.database"},
		{name: "should reject dot-leading database", mutate: func(c *Config) { c.Storage.Database = ".." }, expectedField: "storage.database"},
		{name: "should reject postgres without DSN", mutate: func(c *Config) { c.Storage.Backend = BackendPostgres }, expectedField: "storage.dsn"},
		{name: "should reject zero permissions", mutate: func(c *Config) { c.Storage.DirPermissions = 0 }, expectedField: "storage.dir_permissions"},
		{name: "should reject empty address", mutate: func(c *Config) { c.Server.Addr = "" }, expectedField: "server.addr"},
		{name: "should reject non-positive read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, expectedField: "server.read_timeout"},
		{name: "should reject min length below one", mutate: func(c *Config) { c.Validation.TaskNameMinLength = 0 }, expectedField: "validation.task_name_min_length"},
		{name: "should reject max below min", mutate: func(c *Config) {
			c.Validation.TaskNameMinLength = 10
			c.Validation.TaskNameMaxLength = 5
		}, expectedField: "validation.task_name_max_length"},
		{name: "should accept max length of 255", mutate: func(c *Config) { c.Validation.TaskNameMaxLength = 255 }},
		{name: "should reject max length above 255", mutate: func(c *Config) { c.Validation.TaskNameMaxLength = 1000 }, expectedField: "validation.task_name_max_length"},
		{name: "should reject unknown log format", mutate: func(c *Config) { c.Application.LogFormat = "xml" }, expectedField: "application.log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Storage.Root = "/tmp/ta"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.expectedField, configErr.Field)
			assert.Contains(t, err.Error(), tt.expectedField)
		})
	}
}
