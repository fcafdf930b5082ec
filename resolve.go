package ecs

// ResolveQueues drains every command queue in the fixed order spec.md §4.6
// requires — create, then destroy, then for each registered component (in
// registration order) its insert queue followed by its remove queue — then
// compacts the directory and reclaims any page left at length zero.
//
// Every queue is drained peek-then-pop: an item is only popped once it has
// been fully applied, so a mid-resolve allocation failure leaves the world
// consistent and the failing item (and everything after it) still queued
// for the next attempt.
func (w *World) ResolveQueues() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.resolveCreates(); err != nil {
		return err
	}
	if err := w.resolveDestroys(); err != nil {
		return err
	}
	for _, id := range registeredComponentsInOrder() {
		if err := w.resolveInserts(id); err != nil {
			return err
		}
		if err := w.resolveRemoves(id); err != nil {
			return err
		}
	}
	w.dir.Compact(w.keyLookup)
	w.reclaimEmptyPages()
	return nil
}

func (w *World) resolveCreates() error {
	for {
		hdr, ok := w.createQ.Peek()
		if !ok {
			break
		}
		tmpl := w.templates.get(hdr.templateID)

		if err := w.dir.Ensure(w.keyLookup, hdr.key); err != nil {
			return err
		}
		arch := w.getOrCreateArchetype(tmpl.set)
		pg, err := w.pageForArchetype(arch)
		if err != nil {
			return err
		}
		slot := pg.Append(hdr.key, tmpl)
		if !w.dir.Insert(w.keyLookup, hdr.key, pg.id, int32(slot)) {
			fatalf("duplicate key %d inserted during create resolve", hdr.key)
		}
		if pg.Full() {
			w.hot.forget(pg) // free the hot slot for a page that can still take appends
		}

		w.createQ.Pop()
		w.templates.release(hdr.templateID)
	}
	return nil
}

func (w *World) resolveDestroys() error {
	for {
		k, ok := w.destroyQ.Peek()
		if !ok {
			break
		}
		pid, slot, found := w.dir.Get(w.keyLookup, k)
		if found {
			w.dir.Remove(w.keyLookup, k)
			pg := w.pages[pid-1]
			moved := pg.Erase(int(slot))
			if moved != NilKey {
				if !w.dir.Update(w.keyLookup, moved, pid, slot) {
					fatalf("directory update failed for key %d relocated by destroy", moved)
				}
			}
			if cb, ok := w.destroyCallbacks[k]; ok {
				cb(k)
				delete(w.destroyCallbacks, k)
			}
			delete(w.parents, k)
		}
		w.destroyQ.Pop()
	}
	return nil
}

func (w *World) resolveInserts(id ComponentID) error {
	q, ok := w.insertQs[id]
	if !ok {
		return nil
	}
	for {
		rec, ok := q.Peek()
		if !ok {
			break
		}
		pid, slot, found := w.dir.Get(w.keyLookup, rec.key)
		if !found {
			q.Pop()
			continue
		}
		oldPg := w.pages[pid-1]
		if oldPg.HasComponent(id) {
			q.Pop()
			continue
		}

		newSet := oldPg.arch.set.with(uint32(id))
		newArch := w.getOrCreateArchetype(newSet)
		newPg, err := w.pageForArchetype(newArch)
		if err != nil {
			return err
		}

		tmpl := snapshotTemplate(oldPg, int(slot))
		tmpl.values[id] = rec.value
		tmpl.set = tmpl.set.with(uint32(id))

		newSlot := newPg.Append(rec.key, tmpl)
		if !w.dir.Update(w.keyLookup, rec.key, newPg.id, int32(newSlot)) {
			fatalf("directory update failed migrating key %d for insert", rec.key)
		}
		moved := oldPg.Erase(int(slot))
		if moved != NilKey {
			if !w.dir.Update(w.keyLookup, moved, pid, slot) {
				fatalf("directory update failed for key %d relocated by insert", moved)
			}
		}
		q.Pop()
	}
	return nil
}

func (w *World) resolveRemoves(id ComponentID) error {
	q, ok := w.removeQs[id]
	if !ok {
		return nil
	}
	for {
		k, ok := q.Peek()
		if !ok {
			break
		}
		pid, slot, found := w.dir.Get(w.keyLookup, k)
		if !found {
			q.Pop()
			continue
		}
		oldPg := w.pages[pid-1]
		if !oldPg.HasComponent(id) {
			q.Pop()
			continue
		}

		newSet := oldPg.arch.set.without(uint32(id))
		newArch := w.getOrCreateArchetype(newSet)
		newPg, err := w.pageForArchetype(newArch)
		if err != nil {
			return err
		}

		tmpl := snapshotTemplate(oldPg, int(slot))
		delete(tmpl.values, id)
		tmpl.set = tmpl.set.without(uint32(id))

		newSlot := newPg.Append(k, tmpl)
		if !w.dir.Update(w.keyLookup, k, newPg.id, int32(newSlot)) {
			fatalf("directory update failed migrating key %d for remove", k)
		}
		moved := oldPg.Erase(int(slot))
		if moved != NilKey {
			if !w.dir.Update(w.keyLookup, moved, pid, slot) {
				fatalf("directory update failed for key %d relocated by remove", moved)
			}
		}
		q.Pop()
	}
	return nil
}

// reclaimEmptyPages releases every page whose length dropped to zero back
// to the block pool and frees its pageID for reuse.
func (w *World) reclaimEmptyPages() {
	for _, arch := range w.archetypes {
		kept := arch.pages[:0]
		for _, pg := range arch.pages {
			if pg.IsEmpty() {
				w.hot.forget(pg)
				w.pages[pg.id-1] = nil
				w.freePageIDs = append(w.freePageIDs, pg.id)
				w.pool.Release(pg.blk)
				continue
			}
			kept = append(kept, pg)
		}
		arch.pages = kept
	}
}
