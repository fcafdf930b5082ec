package ecs

import (
	"testing"
	"unsafe"
)

type pgComp1 struct{ V int64 }
type pgComp2 struct{ V, W int64 }

func newTestPage(t *testing.T, compIDs []ComponentID) (*page, *BlockPool) {
	t.Helper()
	pool := NewBlockPool(4096, 1, false)
	blk, err := pool.Acquire()
	if err != nil {
		t.Fatalf("unexpected error acquiring block: %v", err)
	}
	hdr := layoutPage(blk, uintptr(pool.BlockSize()), compIDs)
	return &page{hdr: hdr, blk: blk, compIDs: compIDs, arch: &Archetype{compIDs: compIDs}}, pool
}

func TestPage(t *testing.T) {
	c1 := GetID[pgComp1]()
	c2 := GetID[pgComp2]()

	t.Run("append and read back component values", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1, c2})
		tmpl := NewTemplate()
		WithComponent(tmpl, pgComp1{V: 7})
		WithComponent(tmpl, pgComp2{V: 1, W: 2})
		slot := pg.Append(Key(1), tmpl)
		if slot != 0 {
			t.Fatalf("expected slot 0, got %d", slot)
		}
		if *pg.keyAt(0) != Key(1) {
			t.Error("key not stored correctly")
		}
		got1 := *(*pgComp1)(pg.componentPtr(c1, 0))
		if got1.V != 7 {
			t.Errorf("expected V=7, got %d", got1.V)
		}
		got2 := *(*pgComp2)(pg.componentPtr(c2, 0))
		if got2.V != 1 || got2.W != 2 {
			t.Errorf("expected {1,2}, got %+v", got2)
		}
	})

	t.Run("HasComponent reflects the page's archetype", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1})
		if !pg.HasComponent(c1) {
			t.Error("expected HasComponent true for c1")
		}
		if pg.HasComponent(c2) {
			t.Error("expected HasComponent false for c2")
		}
	})

	t.Run("erase of the last slot returns NilKey", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1})
		tmpl := NewTemplate()
		WithComponent(tmpl, pgComp1{V: 1})
		pg.Append(Key(1), tmpl)
		moved := pg.Erase(0)
		if moved != NilKey {
			t.Errorf("expected NilKey, got %d", moved)
		}
		if pg.Len() != 0 {
			t.Errorf("expected length 0, got %d", pg.Len())
		}
	})

	t.Run("erase of a non-last slot swaps the last entry in and reports its key", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1})
		for i, v := range []int64{10, 20, 30} {
			tmpl := NewTemplate()
			WithComponent(tmpl, pgComp1{V: v})
			pg.Append(Key(i+1), tmpl)
		}
		moved := pg.Erase(0)
		if moved != Key(3) {
			t.Errorf("expected key 3 to have moved into slot 0, got %d", moved)
		}
		if pg.Len() != 2 {
			t.Fatalf("expected length 2, got %d", pg.Len())
		}
		if *pg.keyAt(0) != Key(3) {
			t.Error("expected key 3 at slot 0 after swap-erase")
		}
		got := *(*pgComp1)(pg.componentPtr(c1, 0))
		if got.V != 30 {
			t.Errorf("expected component value 30 to have moved with the key, got %d", got.V)
		}
	})

	t.Run("Full reflects capacity", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1})
		for !pg.Full() {
			tmpl := NewTemplate()
			WithComponent(tmpl, pgComp1{V: int64(pg.Len())})
			pg.Append(Key(pg.Len()+1), tmpl)
		}
		if pg.Len() != pg.Cap() {
			t.Errorf("expected length to equal capacity once full, got %d/%d", pg.Len(), pg.Cap())
		}
	})

	t.Run("snapshotTemplate captures every present component", func(t *testing.T) {
		pg, _ := newTestPage(t, []ComponentID{c1, c2})
		tmpl := NewTemplate()
		WithComponent(tmpl, pgComp1{V: 5})
		WithComponent(tmpl, pgComp2{V: 9, W: 10})
		pg.Append(Key(1), tmpl)
		snap := snapshotTemplate(pg, 0)
		if !snap.Has(c1) || !snap.Has(c2) {
			t.Fatal("expected snapshot to include both components")
		}
		cv := snap.values[c1]
		var v pgComp1
		cv.writeTo(unsafe.Pointer(&v))
		if v.V != 5 {
			t.Errorf("expected snapshot V=5, got %d", v.V)
		}
	})
}

func TestArchetype(t *testing.T) {
	c1 := GetID[pgComp1]()

	t.Run("newPage lays out a usable page and tracks it", func(t *testing.T) {
		pool := NewBlockPool(4096, 2, false)
		a := &Archetype{compIDs: []ComponentID{c1}, pool: pool}
		pg, err := a.newPage()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(a.pages) != 1 || a.pages[0] != pg {
			t.Error("expected newPage to register the page on the archetype")
		}
	})

	t.Run("findNonFullPage skips full pages", func(t *testing.T) {
		pool := NewBlockPool(4096, 2, false)
		a := &Archetype{compIDs: []ComponentID{c1}, pool: pool}
		pg, _ := a.newPage()
		for !pg.Full() {
			tmpl := NewTemplate()
			WithComponent(tmpl, pgComp1{})
			pg.Append(Key(pg.Len()+1), tmpl)
		}
		if got := a.findNonFullPage(); got != nil {
			t.Error("expected no non-full page once the only page is full")
		}
		pg2, _ := a.newPage()
		if got := a.findNonFullPage(); got != pg2 {
			t.Error("expected the freshly added page to be found as non-full")
		}
	})

	t.Run("removePage drops the target from the list", func(t *testing.T) {
		pool := NewBlockPool(4096, 2, false)
		a := &Archetype{compIDs: []ComponentID{c1}, pool: pool}
		pg1, _ := a.newPage()
		pg2, _ := a.newPage()
		a.removePage(pg1)
		if len(a.pages) != 1 || a.pages[0] != pg2 {
			t.Error("expected only pg2 to remain")
		}
	})
}
