// Package store persists tag records and path sidecars. Loads of names or
// paths with no persisted entry return tag.ErrNotFound, which callers treat
// as an empty record or tag set, not a failure. Saving an empty record or
// tag set deletes the underlying entry instead of writing an empty one.
package store

import (
	"fmt"
	"strings"

	"github.com/n0roo/tag-kit/internal/tag"
)

// TagStore loads and saves one record per tag name.
type TagStore interface {
	tag.Loader
	Save(name string, rec tag.Record) error
	Delete(name string) error
	List() ([]string, error)
}

// MetaStore loads and saves the reverse index of one path: the set of tag
// names attached to it.
type MetaStore interface {
	LoadMeta(path string) (tag.StringSet, error)
	SaveMeta(path string, tags tag.StringSet) error
}

// ValidateName rejects tag names that cannot double as store keys. File
// stores use the name as a file name, so separators and dot-names are out.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("tag name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("tag name %q contains a path separator", name)
	}
	return nil
}
