// Package config handles loading and managing ktsort configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for ktsort.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Workers  int            `yaml:"workers"` // 0 = GOMAXPROCS
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	LogLevel string         `yaml:"log_level"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // text, json, terminal, markdown
}

// StorageConfig configures remote input and output locations.
type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config holds settings for s3:// locations. Empty fields fall back to the
// AWS default credential chain.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DatabaseConfig configures the optional result store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres or sqlite; empty disables the store
	DSN    string `yaml:"dsn"`
}

// Enabled reports whether a result store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != "" && d.DSN != ""
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{Format: "text"},
		LogLevel: "info",
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("parsing config: workers must be >= 0, got %d", cfg.Workers)
	}
	switch cfg.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("parsing config: unsupported database driver %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// FindConfigFile looks for .ktsort/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".ktsort", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Discover loads the config file found from dir upwards, or the defaults
// when there is none.
func Discover(dir string) (*Config, string, error) {
	path := FindConfigFile(dir)
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
