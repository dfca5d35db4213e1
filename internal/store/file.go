package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n0roo/tag-kit/internal/tag"
)

// FileStore persists one JSON document per tag under a directory. The
// directory is an explicit configuration value; nothing is resolved
// relative to the executable or the working directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is
// created lazily on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) recordPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the record for a tag name. A missing file is tag.ErrNotFound,
// as is a name the store cannot represent: such a name can never have been
// saved, and resolving it as missing keeps one bad edge in a hand-edited
// record from aborting a whole query.
func (s *FileStore) Load(name string) (tag.Record, error) {
	if err := ValidateName(name); err != nil {
		return tag.Record{}, tag.ErrNotFound
	}

	data, err := os.ReadFile(s.recordPath(name))
	if os.IsNotExist(err) {
		return tag.Record{}, tag.ErrNotFound
	}
	if err != nil {
		return tag.Record{}, fmt.Errorf("failed to read tag %q: %w", name, err)
	}

	var rec tag.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return tag.Record{}, fmt.Errorf("failed to parse tag %q: %w", name, err)
	}
	return rec, nil
}

// Save writes the record for a tag name. An empty record deletes the file.
func (s *FileStore) Save(name string, rec tag.Record) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if rec.IsEmpty() {
		return s.Delete(name)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create tag directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize tag %q: %w", name, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.recordPath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write tag %q: %w", name, err)
	}
	return nil
}

// Delete removes the record for a tag name. Deleting a missing record is
// not an error.
func (s *FileStore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.recordPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete tag %q: %w", name, err)
	}
	return nil
}

// List returns every persisted tag name in directory order.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	return names, nil
}
