package tagger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/n0roo/tag-kit/internal/store"
	"github.com/n0roo/tag-kit/internal/tag"
)

func setupService(t *testing.T) (*Service, *store.FileStore, string) {
	t.Helper()

	dir := t.TempDir()
	tags := store.NewFileStore(filepath.Join(dir, "tags"))
	svc := NewService(tags, store.NewSidecarStore(), WithWarnf(t.Logf))
	return svc, tags, dir
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}
	return path
}

func TestTagThenUntag_RoundTrip(t *testing.T) {
	svc, tags, dir := setupService(t)
	path := touch(t, dir, "report.md")

	if err := svc.Tag([]string{path}, []string{"work"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	rec, err := tags.Load("work")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !rec.Paths.Has(path) {
		t.Error("tagged path missing from record")
	}

	meta, err := store.NewSidecarStore().LoadMeta(path)
	if err != nil {
		t.Fatalf("meta load failed: %v", err)
	}
	if !meta.Has("work") {
		t.Error("tag missing from path metadata")
	}

	if err := svc.Untag([]string{path}, []string{"work"}); err != nil {
		t.Fatalf("untag failed: %v", err)
	}

	// A fresh resolve no longer contains the path, and the record file is
	// gone because the record became empty.
	resolved, err := svc.Resolve("work")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Contains(path) {
		t.Error("path still contained after untag")
	}
	if _, err := tags.Load("work"); !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("empty record should be deleted, got %v", err)
	}
	if _, err := os.Stat(store.SidecarPath(path)); !os.IsNotExist(err) {
		t.Error("empty sidecar should be deleted")
	}
}

func TestGetAndUnion(t *testing.T) {
	svc, _, dir := setupService(t)
	a := touch(t, dir, "a")
	b := touch(t, dir, "b")
	c := touch(t, dir, "c")

	if err := svc.Tag([]string{a, b}, []string{"work"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if err := svc.Tag([]string{b, c}, []string{"urgent"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	got, err := svc.Get([]string{"work", "urgent"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if want := []string{b}; !reflect.DeepEqual(got, want) {
		t.Errorf("get = %v, want %v", got, want)
	}

	all, err := svc.Union([]string{"work", "urgent"})
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	if want := []string{a, b, c}; !reflect.DeepEqual(all, want) {
		t.Errorf("union = %v, want %v", all, want)
	}
}

func TestListTags_ExpandsInheritance(t *testing.T) {
	svc, _, dir := setupService(t)
	path := touch(t, dir, "report.md")

	if err := svc.Tag([]string{path}, []string{"parent"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if err := svc.Link("parent", nil, []string{"child"}); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	got, err := svc.ListTags([]string{path})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := []string{"child", "parent"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list = %v, want %v", got, want)
	}
}

func TestListTags_UntaggedPathsYieldNothing(t *testing.T) {
	svc, _, dir := setupService(t)
	path := touch(t, dir, "plain.md")

	got, err := svc.ListTags([]string{path})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("list = %v, want empty", got)
	}
}

func TestClear(t *testing.T) {
	svc, tags, dir := setupService(t)
	a := touch(t, dir, "a")
	b := touch(t, dir, "b")

	if err := svc.Tag([]string{a, b}, []string{"work", "urgent"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	if err := svc.Clear([]string{a}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	// a is gone from both records, b survives.
	for _, name := range []string{"work", "urgent"} {
		rec, err := tags.Load(name)
		if err != nil {
			t.Fatalf("load %q failed: %v", name, err)
		}
		if rec.Paths.Has(a) {
			t.Errorf("cleared path still in %q", name)
		}
		if !rec.Paths.Has(b) {
			t.Errorf("unrelated path missing from %q", name)
		}
	}

	if _, err := os.Stat(store.SidecarPath(a)); !os.IsNotExist(err) {
		t.Error("cleared sidecar should be deleted")
	}
	meta, err := store.NewSidecarStore().LoadMeta(b)
	if err != nil {
		t.Fatalf("meta load failed: %v", err)
	}
	if !meta.Has("work") || !meta.Has("urgent") {
		t.Error("unrelated sidecar was modified")
	}
}

func TestClear_LastPathDeletesRecord(t *testing.T) {
	svc, tags, dir := setupService(t)
	path := touch(t, dir, "only")

	if err := svc.Tag([]string{path}, []string{"solo"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if err := svc.Clear([]string{path}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if _, err := tags.Load("solo"); !errors.Is(err, tag.ErrNotFound) {
		t.Errorf("record emptied by clear should be deleted, got %v", err)
	}
}

func TestLinkUnlink(t *testing.T) {
	svc, tags, _ := setupService(t)

	if err := svc.Link("project", []string{"work"}, []string{"base"}); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	rec, err := tags.Load("project")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !rec.IncludeTags.Has("work") || !rec.InheritedTags.Has("base") {
		t.Errorf("edges not persisted: %+v", rec)
	}

	if err := svc.Unlink("project", []string{"work"}, []string{"base"}); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	if _, err := tags.Load("project"); !errors.Is(err, tag.ErrNotFound) {
		t.Error("record emptied by unlink should be deleted")
	}
}

func TestLink_RejectsSelfReference(t *testing.T) {
	svc, _, _ := setupService(t)

	if err := svc.Link("loop", []string{"loop"}, nil); err == nil {
		t.Error("self include should be rejected")
	}
}

func TestTag_BrokenRecordWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	tagsDir := filepath.Join(dir, "tags")
	if err := os.MkdirAll(tagsDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tagsDir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	var warnings []string
	tags := store.NewFileStore(tagsDir)
	svc := NewService(tags, store.NewSidecarStore(), WithWarnf(func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}))

	path := touch(t, dir, "report.md")
	if err := svc.Tag([]string{path}, []string{"broken", "fine"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	if len(warnings) == 0 {
		t.Error("expected a warning for the broken record")
	}
	// The healthy tag was still written.
	rec, err := tags.Load("fine")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !rec.Paths.Has(path) {
		t.Error("healthy tag was not updated")
	}
}

func TestTag_PartialRecordDocument(t *testing.T) {
	dir := t.TempDir()
	tagsDir := filepath.Join(dir, "tags")
	if err := os.MkdirAll(tagsDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	// A hand-edited record carrying only one of the three fields.
	if err := os.WriteFile(filepath.Join(tagsDir, "partial.json"), []byte(`{"include_tags":["other"]}`), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	tags := store.NewFileStore(tagsDir)
	svc := NewService(tags, store.NewSidecarStore(), WithWarnf(t.Logf))

	path := touch(t, dir, "report.md")
	if err := svc.Tag([]string{path}, []string{"partial"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}

	rec, err := tags.Load("partial")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !rec.Paths.Has(path) {
		t.Error("path missing from partial record")
	}
	if !rec.IncludeTags.Has("other") {
		t.Error("existing include edge was lost")
	}
}

func TestLink_PartialRecordDocument(t *testing.T) {
	dir := t.TempDir()
	tagsDir := filepath.Join(dir, "tags")
	if err := os.MkdirAll(tagsDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tagsDir, "partial.json"), []byte(`{"paths":["/a"]}`), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	tags := store.NewFileStore(tagsDir)
	svc := NewService(tags, store.NewSidecarStore(), WithWarnf(t.Logf))

	if err := svc.Link("partial", []string{"work"}, []string{"base"}); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	rec, err := tags.Load("partial")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !rec.IncludeTags.Has("work") || !rec.InheritedTags.Has("base") {
		t.Errorf("edges not persisted: %+v", rec)
	}
	if !rec.Paths.Has("/a") {
		t.Error("existing path was lost")
	}
}

func TestGet_UnrepresentableIncludeResolvesAsMissing(t *testing.T) {
	dir := t.TempDir()
	tagsDir := filepath.Join(dir, "tags")
	if err := os.MkdirAll(tagsDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	// An include edge naming something the store could never have saved.
	if err := os.WriteFile(filepath.Join(tagsDir, "work.json"), []byte(`{"include_tags":["a/b"],"paths":["/a"]}`), 0644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	svc := NewService(store.NewFileStore(tagsDir), store.NewSidecarStore(), WithWarnf(t.Logf))

	got, err := svc.Get([]string{"work"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if want := []string{"/a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("get = %v, want %v", got, want)
	}
}

type recordingJournal struct {
	ops []string
}

func (j *recordingJournal) Record(op string, tags, paths []string) error {
	j.ops = append(j.ops, op)
	return nil
}

func TestJournalReceivesOperations(t *testing.T) {
	dir := t.TempDir()
	journal := &recordingJournal{}
	svc := NewService(
		store.NewFileStore(filepath.Join(dir, "tags")),
		store.NewSidecarStore(),
		WithJournal(journal),
	)

	path := touch(t, dir, "report.md")
	if err := svc.Tag([]string{path}, []string{"work"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if err := svc.Untag([]string{path}, []string{"work"}); err != nil {
		t.Fatalf("untag failed: %v", err)
	}

	want := []string{"tag", "untag"}
	if !reflect.DeepEqual(journal.ops, want) {
		t.Errorf("journal ops = %v, want %v", journal.ops, want)
	}
}
