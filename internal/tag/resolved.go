package tag

// Resolved is the output of one Resolve call: the root record plus a flat
// name->record mapping covering every tag transitively reachable from it.
// Cross-references between tags are name lookups into the mapping, so a tag
// reachable via several parents exists exactly once. Resolved graphs are
// built once and queried read-only.
type Resolved struct {
	raw  Record
	tags map[string]Record
}

// Raw returns the root record resolution started from.
func (g *Resolved) Raw() Record {
	return g.raw
}

// Tag returns the resolved record for a name.
func (g *Resolved) Tag(name string) (Record, bool) {
	rec, ok := g.tags[name]
	return rec, ok
}

// TagNames returns the names of every resolved record in sorted order.
func (g *Resolved) TagNames() []string {
	names := make(StringSet, len(g.tags))
	for name := range g.tags {
		names.Add(name)
	}
	return names.Sorted()
}

// Contains reports whether path is tagged by the root directly or by any
// tag transitively reachable through include edges. Membership is
// transitive to match Union: a path contributed by an include of an
// include is contained.
func (g *Resolved) Contains(path string) bool {
	return g.contains(g.raw, path)
}

func (g *Resolved) contains(rec Record, path string) bool {
	if rec.Paths.Has(path) {
		return true
	}
	for name := range rec.IncludeTags {
		if g.contains(g.tags[name], path) {
			return true
		}
	}
	return false
}

// Union returns the root's own paths plus the paths of every tag
// transitively reachable through include edges.
func (g *Resolved) Union() StringSet {
	set := StringSet{}
	g.unionInto(g.raw, set)
	return set
}

func (g *Resolved) unionInto(rec Record, set StringSet) {
	for name := range rec.IncludeTags {
		g.unionInto(g.tags[name], set)
	}
	set.Extend(rec.Paths)
}

// Intersection returns the paths common to every directly included tag's
// transitive union, plus the root's own paths. With no includes the
// intersection is empty and only the root's paths remain. An include that
// resolved to nothing contributes an empty union and collapses the result
// to the root's paths: intersecting with an unknown tag yields nothing.
func (g *Resolved) Intersection() StringSet {
	sets := make([]StringSet, 0, len(g.raw.IncludeTags))
	for name := range g.raw.IncludeTags {
		set := StringSet{}
		g.unionInto(g.tags[name], set)
		sets = append(sets, set)
	}

	result := treeReduce(sets)
	result.Extend(g.raw.Paths)
	return result
}

// treeReduce intersects the sets pairwise in rounds, so similarly sized
// sets are combined together instead of folding everything into the first
// operand. The reduction of zero sets is the empty set.
func treeReduce(sets []StringSet) StringSet {
	if len(sets) == 0 {
		return StringSet{}
	}
	for len(sets) > 1 {
		next := make([]StringSet, 0, (len(sets)+1)/2)
		for i := 0; i+1 < len(sets); i += 2 {
			next = append(next, intersectPair(sets[i], sets[i+1]))
		}
		if len(sets)%2 == 1 {
			next = append(next, sets[len(sets)-1])
		}
		sets = next
	}
	return sets[0]
}

// intersectPair walks the smaller set and keeps the members present in the
// larger one, minimizing membership tests.
func intersectPair(lhs, rhs StringSet) StringSet {
	if len(rhs) < len(lhs) {
		lhs, rhs = rhs, lhs
	}
	out := StringSet{}
	for member := range lhs {
		if rhs.Has(member) {
			out.Add(member)
		}
	}
	return out
}

// AllTags returns the root's include-tag names plus the transitive closure
// of their inherited tags. Insertion into the result set is the duplicate
// guard; traversal stops at names with no resolved record. The root's own
// inherited tags are not walked: query roots never carry any.
func (g *Resolved) AllTags() StringSet {
	result := StringSet{}
	for name := range g.raw.IncludeTags {
		g.inheritedInto(name, result)
	}
	return result
}

func (g *Resolved) inheritedInto(name string, result StringSet) {
	if result.Has(name) {
		return
	}
	result.Add(name)
	rec, ok := g.tags[name]
	if !ok {
		return
	}
	for inherited := range rec.InheritedTags {
		g.inheritedInto(inherited, result)
	}
}
