package ecs

// ComponentSet builds a componentSet from a list of component ids, the
// usual way callers assemble QueryInfo and ViewCapabilities fields:
// ecs.ComponentSet(ecs.GetID[Position](), ecs.GetID[Velocity]()).
func ComponentSet(ids ...ComponentID) componentSet {
	var s componentSet
	for _, id := range ids {
		s.set(uint32(id))
	}
	return s
}

// QueryInfo describes the archetype predicate a page iteration must match,
// plus which of the matched components the iteration intends to read or
// write — mirroring spec.md §4.7's include/optional/exclude sets.
type QueryInfo struct {
	IncludeRead       componentSet
	IncludeReadWrite  componentSet
	OptionalRead      componentSet
	OptionalReadWrite componentSet
	Exclude           componentSet
}

func (q QueryInfo) requiredSet() componentSet {
	return q.IncludeRead.union(q.IncludeReadWrite)
}

// matches reports whether an archetype's component set satisfies this
// query's include/exclude predicate.
func (q QueryInfo) matches(set componentSet) bool {
	if !set.containsAll(q.requiredSet()) {
		return false
	}
	return !set.intersects(q.Exclude)
}

// validateAgainst checks the query is legal for view v per spec.md §4.7's
// validation contract: every readable set is a subset of the view's
// readable capability, every writable set is a subset of the view's
// writable capability, and the five query sets are pairwise disjoint.
func (q QueryInfo) validateAgainst(v *View) error {
	readable := v.componentRead.union(v.componentReadWrite)
	if !q.IncludeRead.union(q.OptionalRead).subsetOf(readable) {
		return &ErrCapabilityViolation{Detail: "query reads a component outside the view's readable set"}
	}
	if !q.IncludeReadWrite.union(q.OptionalReadWrite).subsetOf(v.componentReadWrite) {
		return &ErrCapabilityViolation{Detail: "query writes a component outside the view's writable set"}
	}
	sets := [5]componentSet{q.IncludeRead, q.IncludeReadWrite, q.OptionalRead, q.OptionalReadWrite, q.Exclude}
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if sets[i].intersects(sets[j]) {
				return &ErrCapabilityViolation{Detail: "query's include/optional/exclude sets must be pairwise disjoint"}
			}
		}
	}
	return nil
}

// PageIterator yields every page, across every matching archetype, whose
// archetype satisfies a QueryInfo's include/exclude predicate.
type PageIterator struct {
	archetypes []*Archetype
	archIdx    int
	pageIdx    int
	query      QueryInfo
}

// Next advances to the next matching page, returning false once exhausted.
func (it *PageIterator) Next() (*page, bool) {
	for it.archIdx < len(it.archetypes) {
		a := it.archetypes[it.archIdx]
		if it.pageIdx < len(a.pages) {
			pg := a.pages[it.pageIdx]
			it.pageIdx++
			return pg, true
		}
		it.archIdx++
		it.pageIdx = 0
	}
	return nil, false
}

// PageIterator returns an iterator over pages whose archetype matches q,
// evaluated against the archetype set as it stands at call time. Per
// spec.md §4.7, structural changes only ever land during resolve, never
// during iteration, so the matched archetype/page list is stable for the
// iterator's lifetime.
func (w *World) PageIterator(q QueryInfo) *PageIterator {
	w.mu.RLock()
	defer w.mu.RUnlock()
	matched := make([]*Archetype, 0, len(w.archetypes))
	for _, a := range w.archetypes {
		if q.matches(a.set) {
			matched = append(matched, a)
		}
	}
	return &PageIterator{archetypes: matched, query: q}
}

// EntityIterator yields entity views over one page's occupied slots, in
// ascending slot order.
type EntityIterator struct {
	world *World
	pg    *page
	idx   int
	query *QueryInfo
}

// Entities returns an iterator over pg's occupied slots, tagged with the
// query that produced pg so EntityView accessor checks can be scoped to
// that query's declared include/optional sets.
func (pg *page) Entities(world *World, query *QueryInfo) *EntityIterator {
	return &EntityIterator{world: world, pg: pg, idx: -1, query: query}
}

// Next advances to the next occupied slot.
func (it *EntityIterator) Next() bool {
	it.idx++
	return it.idx < it.pg.Len()
}

// View returns the EntityView for the iterator's current slot.
func (it *EntityIterator) View() *EntityView {
	return &EntityView{world: it.world, key: *it.pg.keyAt(it.idx), pg: it.pg, slot: it.idx, query: it.query}
}

// Key returns the key at the iterator's current slot, without allocating an
// EntityView.
func (it *EntityIterator) Key() Key {
	return *it.pg.keyAt(it.idx)
}
