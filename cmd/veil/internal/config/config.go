// Package config provides configuration management for veil.
// Settings come from an optional YAML config file with environment variable
// overrides (VEIL_* prefix); database credentials are normally supplied via
// VEIL_DB_USERNAME, VEIL_DB_PASSWORD, VEIL_DB_HOST and VEIL_DB_NAME so they
// never have to live in a file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/veil-tools/veil/cmd/veil/internal/constants"
)

const (
	// VersionMajor is the major version number
	VersionMajor = 0
	// VersionMinor is the minor version number
	VersionMinor = 3
)

// Version returns the version string in format {major}.{minor}
func Version() string {
	return fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)
}

// Defaults contains all default configuration values
// centralized in one place to avoid hardcoded literals
var Defaults = struct {
	Database struct {
		Connection string
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
	}
	Logging struct {
		Path            string
		Level           string
		RedactSensitive bool
	}
	Dump struct {
		Table string
	}
	ConfigPath string
}{
	Database: struct {
		Connection string
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
	}{
		Connection: "mysql",
		Host:       "localhost",
		Port:       0, // dialect default
		User:       "root",
		Password:   "",
		Name:       "",
	},
	Logging: struct {
		Path            string
		Level           string
		RedactSensitive bool
	}{
		Path:            "/var/log/veil",
		Level:           "info",
		RedactSensitive: true,
	},
	Dump: struct {
		Table string
	}{
		Table: "users",
	},
	ConfigPath: "/etc/veil.conf",
}

// AppConfig holds the application configuration.
// It is immutable after Load.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Dump     DumpConfig     `mapstructure:"dump"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Connection string `mapstructure:"connection"` // database type: mysql, postgres, sqlite
	Host       string `mapstructure:"host"`       // database host
	Port       int    `mapstructure:"port"`       // database port (0 = dialect default)
	User       string `mapstructure:"user"`       // database user
	Password   string `mapstructure:"password"`   // database password
	Name       string `mapstructure:"name"`       // database name (file path for sqlite)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Path                      string   `mapstructure:"path"`                        // dump file directory
	Level                     string   `mapstructure:"level"`                       // minimum log level
	RedactSensitive           bool     `mapstructure:"redact_sensitive"`            // redact sensitive data in dump lines
	AdditionalSensitiveFields []string `mapstructure:"additional_sensitive_fields"` // fields to redact beyond the defaults
}

// DumpConfig holds dump target configuration.
type DumpConfig struct {
	Table string `mapstructure:"table"` // table to dump
}

// Load initializes and loads the application configuration.
// It reads the YAML config file (optional unless an explicit path was given)
// and applies environment overrides.
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("database.connection", Defaults.Database.Connection)
	v.SetDefault("database.host", Defaults.Database.Host)
	v.SetDefault("database.port", Defaults.Database.Port)
	v.SetDefault("database.user", Defaults.Database.User)
	v.SetDefault("database.password", Defaults.Database.Password)
	v.SetDefault("database.name", Defaults.Database.Name)
	v.SetDefault("logging.path", Defaults.Logging.Path)
	v.SetDefault("logging.level", Defaults.Logging.Level)
	v.SetDefault("logging.redact_sensitive", Defaults.Logging.RedactSensitive)
	v.SetDefault("dump.table", Defaults.Dump.Table)

	// Environment overrides: VEIL_DB_* for credentials, generic VEIL_<SECTION>_<KEY>
	// for everything else.
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.connection", "VEIL_DB_CONNECTION")
	v.BindEnv("database.host", "VEIL_DB_HOST")
	v.BindEnv("database.port", "VEIL_DB_PORT")
	v.BindEnv("database.user", "VEIL_DB_USERNAME")
	v.BindEnv("database.password", "VEIL_DB_PASSWORD")
	v.BindEnv("database.name", "VEIL_DB_NAME")

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(Defaults.ConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly requested config file must exist
		if configPath != "" {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Default path missing is fine, run on defaults and environment
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks required fields and normalizes defaults.
func validate(cfg *AppConfig) error {
	switch cfg.Database.Connection {
	case "mysql", "postgres", "sqlite":
	case "":
		cfg.Database.Connection = Defaults.Database.Connection
	default:
		return fmt.Errorf("unsupported database connection type: %s", cfg.Database.Connection)
	}

	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required (set database.name or VEIL_DB_NAME)")
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = Defaults.Database.Host
	}

	if cfg.Logging.Path == "" {
		cfg.Logging.Path = Defaults.Logging.Path
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		cfg.Logging.Level = Defaults.Logging.Level
	default:
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	if cfg.Dump.Table == "" {
		cfg.Dump.Table = Defaults.Dump.Table
	}

	return nil
}

// ConnectionString builds the driver connection string for the configured
// database.
func ConnectionString(db DatabaseConfig) string {
	switch db.Connection {
	case "sqlite":
		return fmt.Sprintf("sqlite://%s", db.Name)
	case "postgres":
		host := db.Host
		if db.Port > 0 {
			host = fmt.Sprintf("%s:%d", db.Host, db.Port)
		}
		if db.User != "" && db.Password != "" {
			return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", db.User, db.Password, host, db.Name)
		}
		return fmt.Sprintf("postgres://%s/%s?sslmode=disable", host, db.Name)
	default:
		// MySQL DSN: user:password@tcp(host:port)/name
		port := db.Port
		if port == 0 {
			port = 3306
		}
		cred := db.User
		if db.Password != "" {
			cred = fmt.Sprintf("%s:%s", db.User, db.Password)
		}
		return fmt.Sprintf("%s@tcp(%s:%d)/%s", cred, db.Host, port, db.Name)
	}
}
