package history

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/n0roo/tag-kit/internal/db"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "tagkit.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewService(database)
}

func TestRecordAndList(t *testing.T) {
	svc := setupService(t)

	if err := svc.Record(OpTag, []string{"work", "urgent"}, []string{"/a", "/b"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	events, err := svc.List(Filter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("event count = %d, want 2 (one per tag)", len(events))
	}

	for _, e := range events {
		if e.Op != OpTag {
			t.Errorf("op = %q, want %q", e.Op, OpTag)
		}
		if e.ID == "" {
			t.Error("event has no id")
		}
		if got, want := e.Paths(), []string{"/a", "/b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("paths = %v, want %v", got, want)
		}
		if e.CreatedAt.IsZero() {
			t.Error("event has no timestamp")
		}
	}
}

func TestRecord_TaglessOpJournalsPerPath(t *testing.T) {
	svc := setupService(t)

	if err := svc.Record(OpClear, nil, []string{"/a", "/b"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	events, err := svc.List(Filter{Op: OpClear})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("event count = %d, want 2 (one per path)", len(events))
	}
	for _, e := range events {
		if e.Tag != "" {
			t.Errorf("clear event should have no tag, got %q", e.Tag)
		}
		if e.Path == "" {
			t.Error("clear event should carry its path")
		}
	}
}

func TestList_Filters(t *testing.T) {
	svc := setupService(t)

	if err := svc.Record(OpTag, []string{"work"}, []string{"/a"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Record(OpUntag, []string{"work"}, []string{"/a"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Record(OpTag, []string{"urgent"}, []string{"/b"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	byOp, err := svc.List(Filter{Op: OpTag})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byOp) != 2 {
		t.Errorf("op filter matched %d events, want 2", len(byOp))
	}

	byTag, err := svc.List(Filter{Tag: "urgent"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byTag) != 1 {
		t.Errorf("tag filter matched %d events, want 1", len(byTag))
	}

	limited, err := svc.List(Filter{Limit: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d events", len(limited))
	}
}
