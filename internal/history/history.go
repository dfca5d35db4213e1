package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/n0roo/tag-kit/internal/db"
)

// Event is one journaled tagging operation. Operations touching several
// tags journal one event per tag, so per-tag usage is queryable directly.
type Event struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Tag       string    `json:"tag,omitempty"`
	Path      string    `json:"path,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Operation names recorded in the journal.
const (
	OpTag    = "tag"
	OpUntag  = "untag"
	OpClear  = "clear"
	OpLink   = "link"
	OpUnlink = "unlink"
)

// Filter narrows a journal listing.
type Filter struct {
	Op    string `json:"op,omitempty"`
	Tag   string `json:"tag,omitempty"`
	Path  string `json:"path,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Service handles journal operations.
type Service struct {
	db *db.DB
}

// NewService creates a new journal service.
func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

// Record journals one operation: one event per tag, each carrying the
// affected paths as a JSON detail. Operations with no tag (clear) journal
// one event per path instead.
func (s *Service) Record(op string, tags, paths []string) error {
	detail := ""
	if len(paths) > 0 {
		data, err := json.Marshal(paths)
		if err != nil {
			return fmt.Errorf("failed to serialize event detail: %w", err)
		}
		detail = string(data)
	}

	if len(tags) == 0 {
		for _, path := range paths {
			if err := s.insert(op, "", path, ""); err != nil {
				return err
			}
		}
		return nil
	}

	for _, t := range tags {
		if err := s.insert(op, t, "", detail); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) insert(op, tagName, path, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO events (id, op, tag, path, detail) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), op, tagName, path, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", op, err)
	}
	return nil
}

// List returns journaled events, newest first.
func (s *Service) List(filter Filter) ([]Event, error) {
	query := `SELECT id, op, COALESCE(tag, ''), COALESCE(path, ''), COALESCE(detail, ''), created_at FROM events WHERE 1=1`

	var args []interface{}
	var conditions []string

	if filter.Op != "" {
		conditions = append(conditions, "op = ?")
		args = append(args, filter.Op)
	}
	if filter.Tag != "" {
		conditions = append(conditions, "tag = ?")
		args = append(args, filter.Tag)
	}
	if filter.Path != "" {
		conditions = append(conditions, "(path = ? OR detail LIKE ?)")
		args = append(args, filter.Path, "%"+filter.Path+"%")
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Op, &e.Tag, &e.Path, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Paths decodes the paths carried in the event detail.
func (e Event) Paths() []string {
	if e.Detail == "" {
		if e.Path != "" {
			return []string{e.Path}
		}
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(e.Detail), &paths); err != nil {
		return nil
	}
	return paths
}
