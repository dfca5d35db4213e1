package tag

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered set of strings used for both tag names and
// paths. It marshals to a sorted JSON array so persisted records are stable
// across saves.
type StringSet map[string]struct{}

// NewStringSet creates a set from the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts a member into the set.
func (s StringSet) Add(member string) {
	s[member] = struct{}{}
}

// Remove deletes a member from the set.
func (s StringSet) Remove(member string) {
	delete(s, member)
}

// Has reports whether the member is in the set.
func (s StringSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Extend inserts every member of other into the set.
func (s StringSet) Extend(other StringSet) {
	for m := range other {
		s[m] = struct{}{}
	}
}

// Sorted returns the members as a sorted slice.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for m := range s {
		out[m] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array into the set. Duplicates collapse.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewStringSet(members...)
	return nil
}

// Record is the persisted form of one tag: graph edges to other tags plus
// the paths tagged directly with this name.
type Record struct {
	// IncludeTags are tags whose paths are pulled into this tag's union
	// and intersection results.
	IncludeTags StringSet `json:"include_tags"`
	// InheritedTags are tags whose sub-tag names are pulled into the
	// all-tags listing. They contribute no paths.
	InheritedTags StringSet `json:"inherited_tags"`
	// Paths are the paths tagged directly with this name.
	Paths StringSet `json:"paths"`
}

// NewRecord creates a record with empty, non-nil sets.
func NewRecord() Record {
	return Record{
		IncludeTags:   StringSet{},
		InheritedTags: StringSet{},
		Paths:         StringSet{},
	}
}

// Query builds an ephemeral record that expresses "resolve exactly these
// names": only IncludeTags is populated and nothing is persisted.
func Query(names ...string) Record {
	r := NewRecord()
	for _, name := range names {
		r.IncludeTags.Add(name)
	}
	return r
}

// QuerySet is Query over an existing name set.
func QuerySet(names StringSet) Record {
	r := NewRecord()
	r.IncludeTags.Extend(names)
	return r
}

// UnmarshalJSON decodes a record document. Fields absent from the document
// decode as empty sets, so hand-edited partial documents behave like
// NewRecord output instead of carrying nil maps into mutations.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p).normalized()
	return nil
}

// IsEmpty reports whether all three sets are empty. Empty records are
// semantically absent: stores delete them instead of writing an empty
// document.
func (r Record) IsEmpty() bool {
	return len(r.IncludeTags) == 0 && len(r.InheritedTags) == 0 && len(r.Paths) == 0
}

// Keys returns the union of IncludeTags and InheritedTags in sorted order.
// Sorting keeps resolution order, and therefore error paths, reproducible.
func (r Record) Keys() []string {
	keys := r.IncludeTags.Clone()
	keys.Extend(r.InheritedTags)
	return keys.Sorted()
}

// normalized returns the record with nil sets replaced by empty ones, so
// records decoded from partial documents behave like NewRecord output.
func (r Record) normalized() Record {
	if r.IncludeTags == nil {
		r.IncludeTags = StringSet{}
	}
	if r.InheritedTags == nil {
		r.InheritedTags = StringSet{}
	}
	if r.Paths == nil {
		r.Paths = StringSet{}
	}
	return r
}
