package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/n0roo/tag-kit/internal/tag"
)

func TestSidecarPath(t *testing.T) {
	got := SidecarPath("/data/reports/q3.md")
	want := "/data/reports/.q3.md.tags"
	if got != want {
		t.Errorf("SidecarPath = %q, want %q", got, want)
	}
}

func TestSidecarStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.md")
	s := NewSidecarStore()

	want := tag.NewStringSet("work", "urgent")
	if err := s.SaveMeta(target, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.LoadMeta(target)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("load = %v, want %v", got.Sorted(), want.Sorted())
	}

	// Sidecar content is sorted, one name per line.
	data, err := os.ReadFile(SidecarPath(target))
	if err != nil {
		t.Fatalf("sidecar read failed: %v", err)
	}
	if string(data) != "urgent\nwork\n" {
		t.Errorf("sidecar content = %q", data)
	}
}

func TestSidecarStore_LoadMissing(t *testing.T) {
	s := NewSidecarStore()

	_, err := s.LoadMeta(filepath.Join(t.TempDir(), "absent.md"))
	if !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSidecarStore_SaveEmptyDeletesSidecar(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.md")
	s := NewSidecarStore()

	if err := s.SaveMeta(target, tag.NewStringSet("work")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveMeta(target, tag.StringSet{}); err != nil {
		t.Fatalf("empty save failed: %v", err)
	}

	if _, err := os.Stat(SidecarPath(target)); !os.IsNotExist(err) {
		t.Error("empty save should delete the sidecar")
	}
}

func TestSidecarStore_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.md")

	if err := os.WriteFile(SidecarPath(target), []byte("work\n\n  \nurgent\n"), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	got, err := NewSidecarStore().LoadMeta(target)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 2 || !got.Has("work") || !got.Has("urgent") {
		t.Errorf("load = %v, want [urgent work]", got.Sorted())
	}
}
