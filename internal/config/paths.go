package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the default store root directory
	GlobalDirName = ".tagkit"
	// RootEnv overrides the store root when set
	RootEnv = "TAGKIT_ROOT"
)

// GlobalDir returns the default store root (~/.tagkit)
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return GlobalDirName
	}
	return filepath.Join(home, GlobalDirName)
}

// ResolveRoot picks the store root: the explicit override if non-empty,
// then the environment, then the default. The resolution engine never
// consults the environment itself; the root is passed in explicitly.
func ResolveRoot(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(RootEnv); env != "" {
		return env
	}
	return GlobalDir()
}

// TagsDir returns the tag record directory under a store root
func TagsDir(root string) string {
	return filepath.Join(root, "tags")
}

// DBPath returns the journal/store database path under a store root
func DBPath(root string) string {
	return filepath.Join(root, "tagkit.db")
}

// AnalyticsDBPath returns the DuckDB analytics database path
func AnalyticsDBPath(root string) string {
	return filepath.Join(root, "analytics.duckdb")
}

// CacheDir returns the analytics index cache directory
func CacheDir(root string) string {
	return filepath.Join(root, "cache")
}

// ConfigPath returns the config file path under a store root
func ConfigPath(root string) string {
	return filepath.Join(root, "config.yaml")
}

// EnsureDirs creates the store root and its subdirectories
func EnsureDirs(root string) error {
	dirs := []string{
		root,
		TagsDir(root),
		CacheDir(root),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
