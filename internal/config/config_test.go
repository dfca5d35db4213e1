package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendFile)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := Default()
	cfg.Backend = BackendSQLite
	if err := cfg.Save(root); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", loaded.Backend, BackendSQLite)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(ConfigPath(root), []byte("backend: carrier-pigeon\n"), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestResolveRoot(t *testing.T) {
	t.Setenv(RootEnv, "")

	if got := ResolveRoot("/explicit"); got != "/explicit" {
		t.Errorf("explicit override ignored: %q", got)
	}

	t.Setenv(RootEnv, "/from-env")
	if got := ResolveRoot(""); got != "/from-env" {
		t.Errorf("environment ignored: %q", got)
	}

	t.Setenv(RootEnv, "")
	if got := ResolveRoot(""); got != GlobalDir() {
		t.Errorf("default root = %q, want %q", got, GlobalDir())
	}
}

func TestEnsureDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")

	if err := EnsureDirs(root); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	for _, dir := range []string{root, TagsDir(root), CacheDir(root)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing", dir)
		}
	}
}
