// Package config holds dooby configuration, loaded from a YAML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dooby configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AuthConfig configures token signing.
type AuthConfig struct {
	// Secret signs session and password-reset tokens. The default exists
	// for development only.
	Secret     string `yaml:"secret"`
	SessionTTL string `yaml:"session_ttl"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{DatabasePath: "tasks.db"},
		Auth:    AuthConfig{Secret: "dev_secret_key", SessionTTL: "24h"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; env vars still
// apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOOBY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DOOBY_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("DOOBY_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("DOOBY_SESSION_TTL"); v != "" {
		c.Auth.SessionTTL = v
	}
	if v := os.Getenv("DOOBY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) validate() error {
	if _, err := c.SessionTTL(); err != nil {
		return fmt.Errorf("invalid session_ttl %q: %w", c.Auth.SessionTTL, err)
	}
	return nil
}

// SessionTTL parses the configured session lifetime.
func (c *Config) SessionTTL() (time.Duration, error) {
	return time.ParseDuration(c.Auth.SessionTTL)
}
