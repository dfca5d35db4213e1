package tag

import "errors"

// ErrNotFound is returned by Loader implementations when no record is
// persisted under a name. Resolution treats it as an empty record, not an
// error.
var ErrNotFound = errors.New("tag not found")

// Loader loads one tag record by name. Implementations return ErrNotFound
// (possibly wrapped) for names with no persisted record.
type Loader interface {
	Load(name string) (Record, error)
}

// Resolver transitively loads every tag reachable from a root record.
type Resolver struct {
	loader Loader
}

// NewResolver creates a resolver backed by the given loader.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// resolution carries the state of one Resolve call: the accumulating
// name->record mapping and the in-progress chain used for cycle detection.
// The chain is kept both as an ordered slice (for error reporting) and a
// membership set (for the cycle check).
type resolution struct {
	loader Loader
	tags   map[string]Record
	path   []string
	onPath map[string]bool
}

// Resolve loads every tag reachable from root via include and inherit
// edges and returns the resolved graph. Missing records resolve to the
// empty record. Any other load failure, or a cyclic reference, aborts the
// whole call; no partial graph is returned.
func (r *Resolver) Resolve(root Record) (*Resolved, error) {
	s := &resolution{
		loader: r.loader,
		tags:   make(map[string]Record),
		onPath: make(map[string]bool),
	}
	if err := s.resolveKeys(root.normalized()); err != nil {
		return nil, err
	}
	return &Resolved{raw: root.normalized(), tags: s.tags}, nil
}

// resolveKeys resolves every key of rec, depth first.
func (s *resolution) resolveKeys(rec Record) error {
	for _, key := range rec.Keys() {
		if err := s.resolveKey(key); err != nil {
			return err
		}
	}
	return nil
}

// resolveKey resolves one name and its subtree, then records it in the
// mapping. Names already in the mapping were fully resolved via another
// parent and are not descended again; without this check diamond-shaped
// graphs would re-resolve shared subtrees once per parent.
func (s *resolution) resolveKey(key string) error {
	if s.onPath[key] {
		return &CyclicError{Path: append(append([]string{}, s.path...), key)}
	}
	if _, done := s.tags[key]; done {
		return nil
	}

	rec, err := s.loader.Load(key)
	switch {
	case err == nil:
		rec = rec.normalized()
	case errors.Is(err, ErrNotFound):
		rec = NewRecord()
	default:
		return &LoadError{Path: append(append([]string{}, s.path...), key), Err: err}
	}

	s.path = append(s.path, key)
	s.onPath[key] = true
	err = s.resolveKeys(rec)
	s.path = s.path[:len(s.path)-1]
	s.onPath[key] = false
	if err != nil {
		return err
	}

	s.tags[key] = rec
	return nil
}
