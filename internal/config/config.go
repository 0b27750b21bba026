package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// MaxTaskNameLength is the widest task_name column across backends.
// The postgres schema declares VARCHAR(255).
const MaxTaskNameLength = 255

// Storage backends understood by CreateRepository.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Log formats understood by the logging package.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// databaseNamePattern keeps logical database names usable as a directory or
// file name on every backend.
var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// Config holds all configuration options for the task approval store
type Config struct {
	Storage     StorageConfig
	Server      ServerConfig
	Validation  ValidationConfig
	Access      AccessConfig
	Application ApplicationConfig
}

// StorageConfig selects and addresses the persistence backend
type StorageConfig struct {
	Backend        string `env:"TA_STORAGE_BACKEND"`
	Root           string `env:"TA_STORAGE_ROOT"`
	Database       string `env:"TA_STORAGE_DATABASE"`
	DSN            string `env:"TA_STORAGE_DSN"`
	DirPermissions uint32 `env:"TA_STORAGE_DIR_PERMISSIONS"`
	MaxConns       int32  `env:"TA_STORAGE_MAX_CONNS"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"TA_SERVER_ADDR"`
	ReadTimeout     time.Duration `env:"TA_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"TA_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"TA_SERVER_SHUTDOWN_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMinLength int `env:"TA_VALIDATION_TASK_NAME_MIN"`
	TaskNameMaxLength int `env:"TA_VALIDATION_TASK_NAME_MAX"`
}

// AccessConfig holds authorization switches
type AccessConfig struct {
	RestrictReads bool `env:"TA_ACCESS_RESTRICT_READS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `env:"TA_APP_TIMEOUT"`
	Verbose   bool          `env:"TA_APP_VERBOSE"`
	LogFormat string        `env:"TA_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".task-approvals")

	return &Config{
		Storage: StorageConfig{
			Backend:        BackendFile,
			Root:           defaultRoot,
			Database:       "approvals",
			DirPermissions: 0755,
			MaxConns:       10,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Validation: ValidationConfig{
			TaskNameMinLength: 1,
			TaskNameMaxLength: MaxTaskNameLength,
		},
		Access: AccessConfig{
			RestrictReads: false,
		},
		Application: ApplicationConfig{
			Timeout:   60 * time.Second,
			Verbose:   false,
			LogFormat: LogFormatText,
		},
	}
}

// GetSQLitePath returns the database file used by the sqlite backend
func (c *Config) GetSQLitePath() string {
	return filepath.Join(c.Storage.Root, c.Storage.Database+".db")
}

// GetDirPermissions returns the directory mode for newly created storage directories
func (c *Config) GetDirPermissions() os.FileMode {
	return os.FileMode(c.Storage.DirPermissions)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TA_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if root := os.Getenv("TA_STORAGE_ROOT"); root != "" {
		c.Storage.Root = root
	}
	if database := os.Getenv("TA_STORAGE_DATABASE"); database != "" {
		c.Storage.Database = database
	}
	if dsn := os.Getenv("TA_STORAGE_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	} else if dsn := os.Getenv("DATABASE_URL"); dsn != "" && c.Storage.DSN == "" {
		c.Storage.DSN = dsn
	}
	if perms := os.Getenv("TA_STORAGE_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Storage.DirPermissions = uint32(p)
		}
	}
	if conns := os.Getenv("TA_STORAGE_MAX_CONNS"); conns != "" {
		if n, err := strconv.ParseInt(conns, 10, 32); err == nil {
			c.Storage.MaxConns = int32(n)
		}
	}

	// Server configuration
	if addr := os.Getenv("TA_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("TA_SERVER_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("TA_SERVER_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.WriteTimeout = d
		}
	}
	if timeout := os.Getenv("TA_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.ShutdownTimeout = d
		}
	}

	// Validation configuration
	if minLen := os.Getenv("TA_VALIDATION_TASK_NAME_MIN"); minLen != "" {
		if n, err := strconv.Atoi(minLen); err == nil {
			c.Validation.TaskNameMinLength = n
		}
	}
	if maxLen := os.Getenv("TA_VALIDATION_TASK_NAME_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.TaskNameMaxLength = n
		}
	}

	// Access configuration
	if restrict := os.Getenv("TA_ACCESS_RESTRICT_READS"); restrict != "" {
		if b, err := strconv.ParseBool(restrict); err == nil {
			c.Access.RestrictReads = b
		}
	}

	// Application configuration
	if timeout := os.Getenv("TA_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("TA_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}
	if format := os.Getenv("TA_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Root == "" {
			return &ConfigError{Field: "storage.root", Message: "storage root cannot be empty"}
		}
		if !databaseNamePattern.MatchString(c.Storage.Database) {
			return &ConfigError{Field: "storage.database", Message: "database name must use letters, digits, '_', '-' or '.' and not start with '.'"}
		}
	case BackendPostgres:
		if c.Storage.DSN == "" {
			return &ConfigError{Field: "storage.dsn", Message: "postgres backend requires a DSN"}
		}
		if c.Storage.MaxConns < 1 {
			return &ConfigError{Field: "storage.max_conns", Message: "max connections must be at least 1"}
		}
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of file, sqlite, postgres"}
	}
	if c.Storage.DirPermissions == 0 || c.Storage.DirPermissions > 0777 {
		return &ConfigError{Field: "storage.dir_permissions", Message: "directory permissions must be an octal mode between 1 and 0777"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TaskNameMinLength < 1 {
		return &ConfigError{Field: "validation.task_name_min_length", Message: "task name minimum length must be at least 1"}
	}
	if c.Validation.TaskNameMaxLength < c.Validation.TaskNameMinLength {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be greater than minimum length"}
	}
	if c.Validation.TaskNameMaxLength > MaxTaskNameLength {
		return &ConfigError{Field: "validation.task_name_max_length", Message: fmt.Sprintf("task name maximum length cannot exceed %d", MaxTaskNameLength)}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	if c.Application.LogFormat != LogFormatText && c.Application.LogFormat != LogFormatJSON {
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
