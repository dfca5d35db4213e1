package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

const schema = `
-- Tag graph edges: targets whose paths this tag includes
CREATE TABLE IF NOT EXISTS tag_includes (
    tag TEXT NOT NULL,
    target TEXT NOT NULL,
    PRIMARY KEY (tag, target)
);

-- Tag graph edges: targets whose sub-tags this tag inherits
CREATE TABLE IF NOT EXISTS tag_inherits (
    tag TEXT NOT NULL,
    target TEXT NOT NULL,
    PRIMARY KEY (tag, target)
);

-- Paths tagged directly with a tag
CREATE TABLE IF NOT EXISTS tag_paths (
    tag TEXT NOT NULL,
    path TEXT NOT NULL,
    PRIMARY KEY (tag, path)
);

CREATE INDEX IF NOT EXISTS idx_tag_paths_path ON tag_paths(path);

-- Operation journal
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    op TEXT NOT NULL,
    tag TEXT,
    path TEXT,
    detail TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_op ON events(op);
CREATE INDEX IF NOT EXISTS idx_events_tag ON events(tag);
CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at);

-- Metadata
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps the SQLite connection shared by the SQLite tag store and the
// operation journal.
type DB struct {
	*sql.DB
	path string
}

// Open opens (or creates) the database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{DB: conn, path: path}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// init applies the schema and records the schema version.
func (d *DB) init() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	_, err := d.Exec(
		`INSERT OR REPLACE INTO metadata (key, value, updated_at) VALUES ('schema_version', ?, CURRENT_TIMESTAMP)`,
		fmt.Sprintf("%d", schemaVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// GetVersion returns the recorded schema version.
func (d *DB) GetVersion() (int, error) {
	var value string
	err := d.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	if _, err := fmt.Sscanf(value, "%d", &version); err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", value, err)
	}
	return version, nil
}
