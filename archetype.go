package ecs

import "strings"

// archetypeID is a dense index into World.archetypes, assigned the first
// time a component set is seen. It doubles as the key for the hot-page
// cache.
type archetypeID uint32

// Archetype is the set of components shared by a group of entities, plus
// the ordered list of pages currently holding that group's data. Archetype
// identity is component-set equality; the World deduplicates by set so
// there is exactly one Archetype per distinct set in use.
type Archetype struct {
	id      archetypeID
	set     componentSet
	compIDs []ComponentID
	pages   []*page
	pool    *BlockPool
}

// ComponentSet returns the archetype's component set.
func (a *Archetype) ComponentSet() componentSet { return a.set }

// String renders the archetype's component set for debugging/logging call
// sites; never consulted on a hot path.
func (a *Archetype) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range a.compIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		info := registryInfo(id)
		b.WriteString(info.typ.Name())
	}
	b.WriteByte('}')
	return b.String()
}

// findNonFullPage returns the first page with room, or nil if every page in
// this archetype is full.
func (a *Archetype) findNonFullPage() *page {
	for _, p := range a.pages {
		if !p.Full() {
			return p
		}
	}
	return nil
}

// newPage acquires a block from the pool and lays out a fresh page for this
// archetype.
func (a *Archetype) newPage() (*page, error) {
	blk, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	hdr := layoutPage(blk, uintptr(a.pool.BlockSize()), a.compIDs)
	pg := &page{hdr: hdr, blk: blk, arch: a, compIDs: a.compIDs}
	a.pages = append(a.pages, pg)
	return pg, nil
}

// removePage drops pg from this archetype's page list. Does not release the
// underlying block; the caller is responsible for that.
func (a *Archetype) removePage(pg *page) {
	for i, p := range a.pages {
		if p == pg {
			a.pages = append(a.pages[:i], a.pages[i+1:]...)
			return
		}
	}
}
