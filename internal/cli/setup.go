package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/n0roo/tag-kit/internal/config"
	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/history"
	"github.com/n0roo/tag-kit/internal/store"
	"github.com/n0roo/tag-kit/internal/tagger"
)

// openTagStore opens the record store the config selects. The returned
// cleanup is non-nil and safe to defer.
func openTagStore(root string) (store.TagStore, func(), error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(config.DBPath(root))
		if err != nil {
			return nil, nil, err
		}
		return store.NewSQLiteStore(database), func() { database.Close() }, nil
	default:
		return store.NewFileStore(config.TagsDir(root)), func() {}, nil
	}
}

// getTagger builds the tagger service. Mutating commands pass journal to
// record their operations in the store database.
func getTagger(journal bool) (*tagger.Service, func(), error) {
	root := storeRoot()

	tags, cleanupStore, err := openTagStore(root)
	if err != nil {
		return nil, nil, err
	}

	opts := []tagger.Option{tagger.WithWarnf(warnf)}
	cleanup := cleanupStore

	if journal {
		database, err := db.Open(config.DBPath(root))
		if err != nil {
			cleanupStore()
			return nil, nil, err
		}
		opts = append(opts, tagger.WithJournal(history.NewService(database)))
		cleanup = func() {
			database.Close()
			cleanupStore()
		}
	}

	return tagger.NewService(tags, store.NewSidecarStore(), opts...), cleanup, nil
}

// parsePaths splits a list-separated paths argument and absolutizes each
// entry, mirroring the platform PATH convention (":" on Unix, ";" on
// Windows).
func parsePaths(arg string) ([]string, error) {
	var paths []string
	for _, p := range filepath.SplitList(arg) {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve path %q: %w", p, err)
		}
		paths = append(paths, abs)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given")
	}
	return paths, nil
}

// printLines renders a result set one entry per line, or as JSON under a
// key when --json is set.
func printLines(key string, lines []string) {
	if jsonOut {
		json.NewEncoder(os.Stdout).Encode(map[string][]string{key: lines})
		return
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}
