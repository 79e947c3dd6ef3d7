package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/zonkit/internal/zon"
)

// Library drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Tool holds all configuration for the zontool CLI.
type Tool struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Parsing
	OnError          string `yaml:"on_error"`           // abort, skip or skip_and_record
	ReportShortLines bool   `yaml:"report_short_lines"` // list lines with < 10 fields as warnings

	// Number of files processed at once by batch commands.
	Workers int `yaml:"workers"`

	Library LibraryConfig `yaml:"library"`
}

// LibraryConfig selects and configures the zone library backend.
type LibraryConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Database   DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultTool returns Tool config with sensible defaults.
func DefaultTool() Tool {
	return Tool{
		LogLevel:         "info",
		OnError:          "abort",
		ReportShortLines: false,
		Workers:          4,
		Library: LibraryConfig{
			Driver:     DriverSQLite,
			SQLitePath: "zones.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "zonkit",
				Password: "zonkit",
				DBName:   "zonkit",
				SSLMode:  "disable",
			},
		},
	}
}

// Validate checks values that would otherwise fail deep inside a command.
func (t Tool) Validate() error {
	var errs []error

	switch t.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", t.LogLevel))
	}
	if _, err := zon.ParseErrorPolicy(t.OnError); err != nil {
		errs = append(errs, fmt.Errorf("on_error: %w", err))
	}
	if t.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers: must be positive, got %d", t.Workers))
	}
	switch t.Library.Driver {
	case DriverSQLite:
		if t.Library.SQLitePath == "" {
			errs = append(errs, errors.New("library.sqlite_path: required for sqlite driver"))
		}
	case DriverPostgres:
		if t.Library.Database.Host == "" || t.Library.Database.DBName == "" {
			errs = append(errs, errors.New("library.database: host and dbname required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("library.driver: unknown driver %q", t.Library.Driver))
	}

	return errors.Join(errs...)
}

// LoadTool loads tool config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadTool(path string) (Tool, error) {
	cfg := DefaultTool()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
