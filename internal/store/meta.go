package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n0roo/tag-kit/internal/tag"
)

// SidecarStore persists one path's tag names in a hidden sidecar file next
// to the path, newline-joined and sorted. Sidecars live and die
// independently of tag records; the tagger service keeps the two in step.
type SidecarStore struct{}

// NewSidecarStore creates a sidecar metadata store.
func NewSidecarStore() *SidecarStore {
	return &SidecarStore{}
}

// SidecarPath returns the sidecar file for a path: ".<base>.tags" in the
// path's parent directory.
func SidecarPath(path string) string {
	dir, base := filepath.Split(filepath.Clean(path))
	return filepath.Join(dir, "."+base+".tags")
}

// LoadMeta reads the tag names attached to a path. A missing sidecar is
// tag.ErrNotFound.
func (s *SidecarStore) LoadMeta(path string) (tag.StringSet, error) {
	data, err := os.ReadFile(SidecarPath(path))
	if os.IsNotExist(err) {
		return nil, tag.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for %s: %w", path, err)
	}

	tags := tag.StringSet{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tags.Add(line)
	}
	return tags, nil
}

// SaveMeta writes the tag names attached to a path. An empty set deletes
// the sidecar.
func (s *SidecarStore) SaveMeta(path string, tags tag.StringSet) error {
	sidecar := SidecarPath(path)

	if len(tags) == 0 {
		err := os.Remove(sidecar)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete metadata for %s: %w", path, err)
		}
		return nil
	}

	data := strings.Join(tags.Sorted(), "\n") + "\n"
	if err := os.WriteFile(sidecar, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", path, err)
	}
	return nil
}
