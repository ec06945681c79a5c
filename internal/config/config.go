// Package config provides configuration for the application.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/render"
)

// ErrDBPathNotSetInProduction is returned when DB_PATH is not set in production. We need this to prevent
// accidentally writing to a database file in the working directory.
var ErrDBPathNotSetInProduction = errors.New("DB_PATH must be set in production")

const (
	// AppEnvironmentDefault is the default application environment.
	AppEnvironmentDefault = "development"
	// DBPathDefault is the default database file. Default is quiz.sqlite in the current directory.
	DBPathDefault = "quiz.sqlite"
	// LogLevelDefault is the default log level.
	LogLevelDefault = logging.LevelInfo
	// DisplayFormatDefault is the default format of DisplayTable.
	DisplayFormatDefault = render.FormatText
)

// Config represents the application configuration.
type Config struct {
	AppEnvironment string

	DBPath string

	LogLevel      logging.Level
	DisplayFormat render.Format
}

// fileConfig is the YAML file named by QUIZDB_CONFIG. Environment variables take precedence over it.
type fileConfig struct {
	AppEnvironment string `yaml:"app_env"`
	DBPath         string `yaml:"db_path"`
	LogLevel       string `yaml:"log_level"`
	DisplayFormat  string `yaml:"display_format"`
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnvironment == "production"
}

// Parse parses the optional config file and environment variables into the config.
func Parse(getenv func(string) string) (*Config, error) {
	c := Config{
		AppEnvironment: AppEnvironmentDefault,
		DBPath:         DBPathDefault,
		LogLevel:       LogLevelDefault,
		DisplayFormat:  DisplayFormatDefault,
	}

	var fc fileConfig
	if path := getenv("QUIZDB_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err = yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error parsing config file %q: %w", path, err)
		}
	}

	// Environment variables overwrite the file, the file overwrites the defaults.
	lookup := func(envKey, fileValue string) string {
		if val := getenv(envKey); val != "" {
			return val
		}

		return fileValue
	}

	if val := lookup("APP_ENV", fc.AppEnvironment); val != "" {
		c.AppEnvironment = val
	}
	dbPath := lookup("DB_PATH", fc.DBPath)
	if dbPath != "" {
		c.DBPath = dbPath
	}

	// Strict validation for types
	if val := lookup("LOG_LEVEL", fc.LogLevel); val != "" {
		var err error
		c.LogLevel, err = logging.ParseLevel(val)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %q, err: %w", val, err)
		}
	}

	if val := lookup("DISPLAY_FORMAT", fc.DisplayFormat); val != "" {
		var err error
		c.DisplayFormat, err = render.ParseFormat(val)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPLAY_FORMAT: %q, err: %w", val, err)
		}
	}

	// Mandatory fields
	if c.IsProduction() && dbPath == "" {
		return nil, ErrDBPathNotSetInProduction
	}

	return &c, nil
}
