// Package analytics answers usage questions the row stores are poorly
// shaped for: tag leaderboards and operation trends. It works over DuckDB,
// reading a JSON index exported from the tag store and an events table
// ingested from the journal.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/n0roo/tag-kit/internal/history"
	"github.com/n0roo/tag-kit/internal/store"
	"github.com/n0roo/tag-kit/internal/tag"
)

// AnalyticsDB wraps DuckDB for analytics queries
type AnalyticsDB struct {
	conn *sql.DB
	path string
}

// Config holds analytics configuration
type Config struct {
	DBPath    string // DuckDB file path
	CachePath string // JSON index cache path
}

// TagStat represents one tag in the usage leaderboard
type TagStat struct {
	Name         string `json:"name"`
	PathCount    int    `json:"path_count"`
	IncludeCount int    `json:"include_count"`
	InheritCount int    `json:"inherit_count"`
}

// OpTrendPoint represents one day of journaled operations
type OpTrendPoint struct {
	Day   string `json:"day"`
	Op    string `json:"op"`
	Count int    `json:"count"`
}

// New creates a new AnalyticsDB instance
func New(cfg Config) (*AnalyticsDB, error) {
	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	if cfg.CachePath != "" {
		if err := os.MkdirAll(cfg.CachePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("duckdb", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	return &AnalyticsDB{
		conn: conn,
		path: cfg.DBPath,
	}, nil
}

// Close closes the database connection
func (a *AnalyticsDB) Close() error {
	return a.conn.Close()
}

// ExportTagIndex writes the current state of a tag store as a JSON index
// DuckDB can query with read_json_auto. Returns the index path.
func ExportTagIndex(tags store.TagStore, cachePath string) (string, error) {
	names, err := tags.List()
	if err != nil {
		return "", fmt.Errorf("failed to list tags for index: %w", err)
	}

	stats := make([]TagStat, 0, len(names))
	for _, name := range names {
		rec, err := tags.Load(name)
		if errors.Is(err, tag.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to index tag %q: %w", name, err)
		}
		stats = append(stats, TagStat{
			Name:         name,
			PathCount:    len(rec.Paths),
			IncludeCount: len(rec.IncludeTags),
			InheritCount: len(rec.InheritedTags),
		})
	}

	if err := os.MkdirAll(cachePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("failed to serialize tag index: %w", err)
	}

	indexPath := filepath.Join(cachePath, "tags_index.json")
	if err := os.WriteFile(indexPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write tag index: %w", err)
	}
	return indexPath, nil
}

// TopTags returns the tags with the most directly tagged paths
func (a *AnalyticsDB) TopTags(ctx context.Context, indexPath string, limit int) ([]TagStat, error) {
	if limit <= 0 {
		limit = 10
	}
	sqlQuery := fmt.Sprintf(`
		SELECT name, path_count, include_count, inherit_count
		FROM read_json_auto('%s')
		ORDER BY path_count DESC, name
		LIMIT %d
	`, escape(indexPath), limit)

	rows, err := a.conn.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tags: %w", err)
	}
	defer rows.Close()

	var results []TagStat
	for rows.Next() {
		var stat TagStat
		if err := rows.Scan(&stat.Name, &stat.PathCount, &stat.IncludeCount, &stat.InheritCount); err != nil {
			continue
		}
		results = append(results, stat)
	}

	return results, nil
}

// IngestEvents replaces the analytics events table with the given journal
// events
func (a *AnalyticsDB) IngestEvents(ctx context.Context, events []history.Event) (int, error) {
	createQuery := `
		CREATE OR REPLACE TABLE events (
			id VARCHAR PRIMARY KEY,
			op VARCHAR NOT NULL,
			tag VARCHAR,
			path VARCHAR,
			detail VARCHAR,
			created_at TIMESTAMP
		)
	`
	if _, err := a.conn.ExecContext(ctx, createQuery); err != nil {
		return 0, fmt.Errorf("failed to create events table: %w", err)
	}

	count := 0
	for _, e := range events {
		insertQuery := fmt.Sprintf(
			`INSERT INTO events (id, op, tag, path, detail, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s')`,
			escape(e.ID), escape(e.Op), escape(e.Tag), escape(e.Path), escape(e.Detail),
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		)
		if _, err := a.conn.ExecContext(ctx, insertQuery); err != nil {
			continue
		}
		count++
	}

	return count, nil
}

// OpTrend returns per-day operation counts over the last days
func (a *AnalyticsDB) OpTrend(ctx context.Context, days int) ([]OpTrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	sqlQuery := fmt.Sprintf(`
		SELECT
			strftime(created_at, '%%Y-%%m-%%d') as day,
			op,
			COUNT(*) as event_count
		FROM events
		WHERE created_at >= current_date - interval '%d day'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, days)

	rows, err := a.conn.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation trend: %w", err)
	}
	defer rows.Close()

	var results []OpTrendPoint
	for rows.Next() {
		var point OpTrendPoint
		if err := rows.Scan(&point.Day, &point.Op, &point.Count); err != nil {
			continue
		}
		results = append(results, point)
	}

	return results, nil
}

// escape doubles single quotes for inline SQL literals
func escape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
