package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config represents the top-level ledge.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects and addresses the backing database.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path,omitempty"` // sqlite only
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"` // postgres only
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a ledge.yaml file from disk. Fields absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for a local sqlite ledger.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:  DriverSQLite,
			Path:    "ledge.db",
			Host:    "localhost",
			Name:    "ledge",
			SSLMode: "disable",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadWithEnv builds the effective configuration: defaults, then the YAML
// file at path if it exists, then LEDGE_* variables from the environment or
// envFile. Real environment variables win over envFile entries. A missing
// envFile is ignored.
func LoadWithEnv(path, envFile string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	fileVars := map[string]string{}
	if envFile != "" {
		fileVars, err = godotenv.Read(envFile)
		if errors.Is(err, fs.ErrNotExist) {
			fileVars = map[string]string{}
		} else if err != nil {
			return nil, fmt.Errorf("reading env file: %w", err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LEDGE_DB_DRIVER":   &c.Database.Driver,
		"LEDGE_DB_PATH":     &c.Database.Path,
		"LEDGE_DB_HOST":     &c.Database.Host,
		"LEDGE_DB_USER":     &c.Database.User,
		"LEDGE_DB_PASSWORD": &c.Database.Password,
		"LEDGE_DB_NAME":     &c.Database.Name,
		"LEDGE_DB_SSLMODE":  &c.Database.SSLMode,
		"LEDGE_LOG_LEVEL":   &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("LEDGE_DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGE_DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	return nil
}

// Validate checks that the database section names a known driver and carries
// the fields that driver needs.
func (c *Config) Validate() error {
	db := c.Database
	switch db.Driver {
	case DriverSQLite:
		if db.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverPostgres, DriverMySQL:
		if db.Host == "" {
			return fmt.Errorf("database.host is required for %s", db.Driver)
		}
		if db.Name == "" {
			return fmt.Errorf("database.name is required for %s", db.Driver)
		}
		if db.User == "" {
			return fmt.Errorf("database.user is required for %s", db.Driver)
		}
	default:
		return fmt.Errorf("database.driver %q is not one of sqlite, postgres, mysql", db.Driver)
	}
	return nil
}

// DefaultPort returns the conventional server port for the driver, or 0 for sqlite.
func (d DatabaseConfig) DefaultPort() int {
	switch d.Driver {
	case DriverPostgres:
		return 5432
	case DriverMySQL:
		return 3306
	}
	return 0
}

// EffectivePort returns Port, falling back to DefaultPort when unset.
func (d DatabaseConfig) EffectivePort() int {
	if d.Port != 0 {
		return d.Port
	}
	return d.DefaultPort()
}
