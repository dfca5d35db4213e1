package store

import (
	"fmt"

	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/tag"
)

// SQLiteStore persists tag records as normalized rows: one row per edge
// and per tagged path. A tag with no rows in any table does not exist.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a tag store over an open database.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

// Load assembles the record for a tag name from its rows. A tag with no
// rows at all is tag.ErrNotFound, as is a name the store refuses to save.
func (s *SQLiteStore) Load(name string) (tag.Record, error) {
	if err := ValidateName(name); err != nil {
		return tag.Record{}, tag.ErrNotFound
	}

	rec := tag.NewRecord()

	if err := s.collect(`SELECT target FROM tag_includes WHERE tag = ?`, name, rec.IncludeTags); err != nil {
		return tag.Record{}, fmt.Errorf("failed to load includes of %q: %w", name, err)
	}
	if err := s.collect(`SELECT target FROM tag_inherits WHERE tag = ?`, name, rec.InheritedTags); err != nil {
		return tag.Record{}, fmt.Errorf("failed to load inherits of %q: %w", name, err)
	}
	if err := s.collect(`SELECT path FROM tag_paths WHERE tag = ?`, name, rec.Paths); err != nil {
		return tag.Record{}, fmt.Errorf("failed to load paths of %q: %w", name, err)
	}

	if rec.IsEmpty() {
		return tag.Record{}, tag.ErrNotFound
	}
	return rec, nil
}

// collect runs a single-column query and inserts every row into the set.
func (s *SQLiteStore) collect(query, name string, into tag.StringSet) error {
	rows, err := s.db.Query(query, name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return err
		}
		into.Add(value)
	}
	return rows.Err()
}

// Save replaces the rows for a tag name. An empty record only deletes.
func (s *SQLiteStore) Save(name string, rec tag.Record) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save of %q: %w", name, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tag_includes", "tag_inherits", "tag_paths"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE tag = ?`, name); err != nil {
			return fmt.Errorf("failed to clear %s of %q: %w", table, name, err)
		}
	}

	for _, target := range rec.IncludeTags.Sorted() {
		if _, err := tx.Exec(`INSERT INTO tag_includes (tag, target) VALUES (?, ?)`, name, target); err != nil {
			return fmt.Errorf("failed to save include of %q: %w", name, err)
		}
	}
	for _, target := range rec.InheritedTags.Sorted() {
		if _, err := tx.Exec(`INSERT INTO tag_inherits (tag, target) VALUES (?, ?)`, name, target); err != nil {
			return fmt.Errorf("failed to save inherit of %q: %w", name, err)
		}
	}
	for _, path := range rec.Paths.Sorted() {
		if _, err := tx.Exec(`INSERT INTO tag_paths (tag, path) VALUES (?, ?)`, name, path); err != nil {
			return fmt.Errorf("failed to save path of %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save of %q: %w", name, err)
	}
	return nil
}

// Delete removes every row for a tag name.
func (s *SQLiteStore) Delete(name string) error {
	return s.Save(name, tag.NewRecord())
}

// List returns every tag name with at least one row, sorted.
func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT tag FROM tag_includes
		UNION SELECT tag FROM tag_inherits
		UNION SELECT tag FROM tag_paths
		ORDER BY tag
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
