package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend selects how tag records are persisted.
type Backend string

const (
	// BackendFile stores one JSON document per tag
	BackendFile Backend = "file"
	// BackendSQLite stores records as rows in the store database
	BackendSQLite Backend = "sqlite"
)

// Config represents <root>/config.yaml
type Config struct {
	Version string  `yaml:"version"`
	Backend Backend `yaml:"backend"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendFile,
	}
}

// Load reads the config file under a store root. A missing file yields the
// defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return cfg, nil
}

// Save writes the config file under a store root.
func (c *Config) Save(root string) error {
	if err := EnsureDirs(root); err != nil {
		return fmt.Errorf("failed to create store root: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
