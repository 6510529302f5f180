package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig selects the storage driver and connection string.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is the driver connection string (a file path for sqlite).
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// DSNKeyringKey, when set, names a keyring entry that holds the DSN.
	// It takes precedence over DSN.
	DSNKeyringKey string `mapstructure:"dsn_keyring_key" yaml:"dsn_keyring_key"`
}

// StoreConfig bounds every storage operation.
type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ServerConfig holds API listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Principal maps an API bearer token to the user it authenticates.
type Principal struct {
	Token  string `mapstructure:"token" yaml:"token"`
	UserID string `mapstructure:"user_id" yaml:"user_id"`
}

// AuthConfig lists the principals accepted by the API.
type AuthConfig struct {
	Principals []Principal `mapstructure:"principals" yaml:"principals"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/clientdesk/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "clientdesk", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clientdesk.db"
	}
	return filepath.Join(home, ".config", "clientdesk", "clientdesk.db")
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    DefaultDatabasePath(),
		},
		Store:  StoreConfig{Timeout: 5 * time.Second},
		Server: ServerConfig{Addr: ":8080"},
		Auth:   AuthConfig{Principals: []Principal{}},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with CLIENTDESK_ override file values
// (e.g. CLIENTDESK_DATABASE_DSN). If the file does not exist, defaults and
// environment overrides are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CLIENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	def := DefaultConfig()
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.dsn", def.Database.DSN)
	v.SetDefault("database.dsn_keyring_key", "")
	v.SetDefault("store.timeout", def.Store.Timeout)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.development", false)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	seen := make(map[string]bool, len(c.Auth.Principals))
	for i, p := range c.Auth.Principals {
		if p.Token == "" || p.UserID == "" {
			return fmt.Errorf("auth.principals[%d] needs both token and user_id", i)
		}
		if seen[p.Token] {
			return fmt.Errorf("auth.principals[%d] reuses a token", i)
		}
		seen[p.Token] = true
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("store", cfg.Store)
	v.Set("server", cfg.Server)
	v.Set("auth", cfg.Auth)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
