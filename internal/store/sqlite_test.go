package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/tag"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "tagkit.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewSQLiteStore(database)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := setupSQLiteStore(t)

	want := sampleRecord()
	if err := s.Save("project", want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load("project")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("load = %+v, want %+v", got, want)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	s := setupSQLiteStore(t)

	_, err := s.Load("absent")
	if !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_LoadUnrepresentableNameIsNotFound(t *testing.T) {
	s := setupSQLiteStore(t)

	if _, err := s.Load("a/b"); !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SaveEmptyDeletesRows(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.Save("project", sampleRecord()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("project", tag.NewRecord()); err != nil {
		t.Fatalf("empty save failed: %v", err)
	}

	if _, err := s.Load("project"); !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("expected ErrNotFound after empty save, got %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("list = %v, want empty", names)
	}
}

func TestSQLiteStore_SaveReplacesRows(t *testing.T) {
	s := setupSQLiteStore(t)

	first := tag.NewRecord()
	first.Paths.Add("/old")
	if err := s.Save("project", first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := tag.NewRecord()
	second.Paths.Add("/new")
	if err := s.Save("project", second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load("project")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Paths.Has("/old") || !got.Paths.Has("/new") {
		t.Errorf("save did not replace paths: %v", got.Paths.Sorted())
	}
}

func TestSQLiteStore_List(t *testing.T) {
	s := setupSQLiteStore(t)

	edgeOnly := tag.NewRecord()
	edgeOnly.IncludeTags.Add("work")
	if err := s.Save("query-ish", edgeOnly); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("work", sampleRecord()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"query-ish", "work"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("list = %v, want %v", names, want)
	}
}

func TestSQLiteStore_ResolvesThroughResolver(t *testing.T) {
	s := setupSQLiteStore(t)

	work := tag.NewRecord()
	work.Paths.Add("/a")
	work.Paths.Add("/b")
	urgent := tag.NewRecord()
	urgent.Paths.Add("/b")
	urgent.Paths.Add("/c")
	if err := s.Save("work", work); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("urgent", urgent); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	resolved, err := tag.NewResolver(s).Resolve(tag.Query("work", "urgent"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if got, want := resolved.Intersection().Sorted(), []string{"/b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("intersection = %v, want %v", got, want)
	}
	if got, want := resolved.Union().Sorted(), []string{"/a", "/b", "/c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("union = %v, want %v", got, want)
	}
}
