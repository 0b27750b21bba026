package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// SetConfigFile points the loader at an explicit YAML file. When unset the
// loader falls back to TA_CONFIG, then ta.yaml in the working directory and
// in ~/.task-approvals.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if overrides != nil && overrides.ConfigFile != nil {
		l.configFile = *overrides.ConfigFile
	}

	if err := l.loadFile(); err != nil {
		return nil, err
	}
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Flags win over everything, so validation waits until they are applied
	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	path := l.configFile
	if path == "" {
		path = os.Getenv("TA_CONFIG")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ta")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".task-approvals"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	applyFile(l.config, v)
	return nil
}

// applyFile copies every key present in the file onto config.
func applyFile(config *Config, v *viper.Viper) {
	if v.IsSet("storage.backend") {
		config.Storage.Backend = v.GetString("storage.backend")
	}
	if v.IsSet("storage.root") {
		config.Storage.Root = v.GetString("storage.root")
	}
	if v.IsSet("storage.database") {
		config.Storage.Database = v.GetString("storage.database")
	}
	if v.IsSet("storage.dsn") {
		config.Storage.DSN = v.GetString("storage.dsn")
	}
	if v.IsSet("storage.dir_permissions") {
		config.Storage.DirPermissions = ParseUint32WithFallback(v.GetString("storage.dir_permissions"), 8, config.Storage.DirPermissions)
	}
	if v.IsSet("storage.max_conns") {
		config.Storage.MaxConns = v.GetInt32("storage.max_conns")
	}

	if v.IsSet("server.addr") {
		config.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.read_timeout") {
		config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	}
	if v.IsSet("server.write_timeout") {
		config.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	}
	if v.IsSet("server.shutdown_timeout") {
		config.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")
	}

	if v.IsSet("validation.task_name_min_length") {
		config.Validation.TaskNameMinLength = v.GetInt("validation.task_name_min_length")
	}
	if v.IsSet("validation.task_name_max_length") {
		config.Validation.TaskNameMaxLength = v.GetInt("validation.task_name_max_length")
	}

	if v.IsSet("access.restrict_reads") {
		config.Access.RestrictReads = v.GetBool("access.restrict_reads")
	}

	if v.IsSet("application.timeout") {
		config.Application.Timeout = v.GetDuration("application.timeout")
	}
	if v.IsSet("application.verbose") {
		config.Application.Verbose = v.GetBool("application.verbose")
	}
	if v.IsSet("application.log_format") {
		config.Application.LogFormat = v.GetString("application.log_format")
	}
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigFile *string

	// Storage overrides
	Backend        *string
	Root           *string
	Database       *string
	DSN            *string
	DirPermissions *uint32

	// Server overrides
	Addr *string

	// Access overrides
	RestrictReads *bool

	// Application overrides
	Verbose   *bool
	LogFormat *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.Backend != nil {
		config.Storage.Backend = *overrides.Backend
	}
	if overrides.Root != nil {
		config.Storage.Root = *overrides.Root
	}
	if overrides.Database != nil {
		config.Storage.Database = *overrides.Database
	}
	if overrides.DSN != nil {
		config.Storage.DSN = *overrides.DSN
	}
	if overrides.DirPermissions != nil {
		config.Storage.DirPermissions = *overrides.DirPermissions
	}

	// Server overrides
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}

	// Access overrides
	if overrides.RestrictReads != nil {
		config.Access.RestrictReads = *overrides.RestrictReads
	}

	// Application overrides
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogFormat != nil {
		config.Application.LogFormat = *overrides.LogFormat
	}
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
