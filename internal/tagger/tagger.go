// Package tagger orchestrates tagging operations over the tag store, the
// path sidecars, and the journal. Operations touching several independent
// tags or paths warn and continue on per-item failures instead of aborting
// the whole run; only resolution failures (cycles, broken records on the
// include chain) abort an operation outright.
package tagger

import (
	"errors"
	"fmt"

	"github.com/n0roo/tag-kit/internal/history"
	"github.com/n0roo/tag-kit/internal/store"
	"github.com/n0roo/tag-kit/internal/tag"
)

// Journal is the subset of the history service the tagger records to.
type Journal interface {
	Record(op string, tags, paths []string) error
}

// Service handles tagging operations.
type Service struct {
	tags    store.TagStore
	meta    store.MetaStore
	journal Journal
	warnf   func(format string, args ...interface{})
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every mutating operation in the given journal.
func WithJournal(journal Journal) Option {
	return func(s *Service) { s.journal = journal }
}

// WithWarnf routes per-item warnings. The default discards them.
func WithWarnf(warnf func(format string, args ...interface{})) Option {
	return func(s *Service) { s.warnf = warnf }
}

// NewService creates a tagger over the given stores.
func NewService(tags store.TagStore, meta store.MetaStore, opts ...Option) *Service {
	s := &Service{
		tags:  tags,
		meta:  meta,
		warnf: func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve resolves a query over the given tag names.
func (s *Service) Resolve(names ...string) (*tag.Resolved, error) {
	return tag.NewResolver(s.tags).Resolve(tag.Query(names...))
}

// Get returns the sorted paths carrying all of the given tags: the
// intersection of each tag's transitive union.
func (s *Service) Get(names []string) ([]string, error) {
	resolved, err := s.Resolve(names...)
	if err != nil {
		return nil, fmt.Errorf("unable to search by tag: %w", err)
	}
	return resolved.Intersection().Sorted(), nil
}

// Union returns the sorted paths carrying any of the given tags.
func (s *Service) Union(names []string) ([]string, error) {
	resolved, err := s.Resolve(names...)
	if err != nil {
		return nil, fmt.Errorf("unable to search by tag: %w", err)
	}
	return resolved.Union().Sorted(), nil
}

// ListTags returns every tag name occurring on the given paths, expanded
// through the tags' inheritance chains, sorted.
func (s *Service) ListTags(paths []string) ([]string, error) {
	names := tag.StringSet{}
	for _, path := range paths {
		meta, ok := s.loadMeta(path)
		if !ok {
			continue
		}
		names.Extend(meta)
	}

	resolved, err := tag.NewResolver(s.tags).Resolve(tag.QuerySet(names))
	if err != nil {
		return nil, fmt.Errorf("unable to list tags: %w", err)
	}
	return resolved.AllTags().Sorted(), nil
}

// Tag adds the paths to each tag's record and the tags to each path's
// sidecar. Per-item store failures warn and continue.
func (s *Service) Tag(paths, names []string) error {
	for _, name := range names {
		rec, ok := s.loadTag(name)
		if !ok {
			continue
		}
		for _, path := range paths {
			rec.Paths.Add(path)
		}
		s.saveTag(name, rec)
	}

	for _, path := range paths {
		meta, ok := s.loadMeta(path)
		if !ok {
			continue
		}
		for _, name := range names {
			meta.Add(name)
		}
		s.saveMeta(path, meta)
	}

	return s.record(history.OpTag, names, paths)
}

// Untag removes the paths from each tag's record and the tags from each
// path's sidecar.
func (s *Service) Untag(paths, names []string) error {
	for _, name := range names {
		rec, ok := s.loadTag(name)
		if !ok {
			continue
		}
		for _, path := range paths {
			rec.Paths.Remove(path)
		}
		s.saveTag(name, rec)
	}

	for _, path := range paths {
		meta, ok := s.loadMeta(path)
		if !ok {
			continue
		}
		for _, name := range names {
			meta.Remove(name)
		}
		s.saveMeta(path, meta)
	}

	return s.record(history.OpUntag, names, paths)
}

// Clear removes every tag from the given paths: the paths disappear from
// all their tags' records and the sidecars are deleted. The records are
// resolved in one pass so each touched tag is loaded and saved once.
func (s *Service) Clear(paths []string) error {
	type pathMeta struct {
		path string
		meta tag.StringSet
	}

	var metas []pathMeta
	names := tag.StringSet{}
	for _, path := range paths {
		meta, ok := s.loadMeta(path)
		if !ok {
			continue
		}
		metas = append(metas, pathMeta{path: path, meta: meta})
		names.Extend(meta)
	}

	resolved, err := tag.NewResolver(s.tags).Resolve(tag.QuerySet(names))
	if err != nil {
		return fmt.Errorf("unable to load tag data for clearing: %w", err)
	}

	for _, pm := range metas {
		for name := range pm.meta {
			if rec, ok := resolved.Tag(name); ok {
				rec.Paths.Remove(pm.path)
			}
		}
		s.saveMeta(pm.path, tag.StringSet{})
	}

	for name := range resolved.Raw().IncludeTags {
		if rec, ok := resolved.Tag(name); ok {
			s.saveTag(name, rec)
		}
	}

	return s.record(history.OpClear, nil, paths)
}

// Link adds include and inherit edges to a tag's record.
func (s *Service) Link(name string, includes, inherits []string) error {
	return s.editEdges(history.OpLink, name, includes, inherits, func(set tag.StringSet, edge string) {
		set.Add(edge)
	})
}

// Unlink removes include and inherit edges from a tag's record.
func (s *Service) Unlink(name string, includes, inherits []string) error {
	return s.editEdges(history.OpUnlink, name, includes, inherits, func(set tag.StringSet, edge string) {
		set.Remove(edge)
	})
}

func (s *Service) editEdges(op, name string, includes, inherits []string, apply func(tag.StringSet, string)) error {
	for _, edge := range append(append([]string{}, includes...), inherits...) {
		if err := store.ValidateName(edge); err != nil {
			return err
		}
		if edge == name {
			return fmt.Errorf("tag %q cannot reference itself", name)
		}
	}

	rec, err := s.tags.Load(name)
	if errors.Is(err, tag.ErrNotFound) {
		rec = tag.NewRecord()
	} else if err != nil {
		return fmt.Errorf("unable to load tag %q: %w", name, err)
	}

	for _, edge := range includes {
		apply(rec.IncludeTags, edge)
	}
	for _, edge := range inherits {
		apply(rec.InheritedTags, edge)
	}

	if err := s.tags.Save(name, rec); err != nil {
		return err
	}
	return s.record(op, []string{name}, append(append([]string{}, includes...), inherits...))
}

// Show returns the raw persisted record of one tag. A missing tag is the
// empty record.
func (s *Service) Show(name string) (tag.Record, error) {
	rec, err := s.tags.Load(name)
	if errors.Is(err, tag.ErrNotFound) {
		return tag.NewRecord(), nil
	}
	if err != nil {
		return tag.Record{}, fmt.Errorf("unable to load tag %q: %w", name, err)
	}
	return rec, nil
}

// Tags returns every persisted tag name.
func (s *Service) Tags() ([]string, error) {
	return s.tags.List()
}

// loadTag loads a record for mutation. Missing records start empty; other
// failures warn and skip the tag.
func (s *Service) loadTag(name string) (tag.Record, bool) {
	rec, err := s.tags.Load(name)
	if errors.Is(err, tag.ErrNotFound) {
		return tag.NewRecord(), true
	}
	if err != nil {
		s.warnf("unable to load tag %q: %v", name, err)
		return tag.Record{}, false
	}
	return rec, true
}

// loadMeta loads a path's sidecar for mutation. Missing sidecars start
// empty; other failures warn and skip the path.
func (s *Service) loadMeta(path string) (tag.StringSet, bool) {
	meta, err := s.meta.LoadMeta(path)
	if errors.Is(err, tag.ErrNotFound) {
		return tag.StringSet{}, true
	}
	if err != nil {
		s.warnf("unable to load metadata for %s: %v", path, err)
		return nil, false
	}
	return meta, true
}

func (s *Service) saveTag(name string, rec tag.Record) {
	if err := s.tags.Save(name, rec); err != nil {
		s.warnf("unable to save tag %q: %v", name, err)
	}
}

func (s *Service) saveMeta(path string, meta tag.StringSet) {
	if err := s.meta.SaveMeta(path, meta); err != nil {
		s.warnf("unable to save metadata for %s: %v", path, err)
	}
}

func (s *Service) record(op string, tags, paths []string) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Record(op, tags, paths); err != nil {
		s.warnf("unable to journal %s operation: %v", op, err)
	}
	return nil
}
