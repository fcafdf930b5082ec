package ecs

import "testing"

type tplHealth struct{ HP int }
type tplName struct{ Name [8]byte }

func TestTemplate(t *testing.T) {
	t.Run("WithComponent chains and Has reports presence", func(t *testing.T) {
		tmpl := NewTemplate()
		WithComponent(WithComponent(tmpl, tplHealth{HP: 10}), tplName{})
		hID := GetID[tplHealth]()
		nID := GetID[tplName]()
		if !tmpl.Has(hID) || !tmpl.Has(nID) {
			t.Error("expected both components present")
		}
	})

	t.Run("a component never set reports absent", func(t *testing.T) {
		type untouched struct{ X int }
		tmpl := NewTemplate()
		if tmpl.Has(GetID[untouched]()) {
			t.Error("expected absent component to report false")
		}
	})

	t.Run("ComponentSet mirrors exactly what was set", func(t *testing.T) {
		tmpl := NewTemplate()
		WithComponent(tmpl, tplHealth{HP: 1})
		set := tmpl.ComponentSet()
		if !set.has(uint32(GetID[tplHealth]())) {
			t.Error("expected set to contain tplHealth's id")
		}
		if set.onesCount() != 1 {
			t.Errorf("expected exactly one member, got %d", set.onesCount())
		}
	})

	t.Run("writeInto only touches the page's present components", func(t *testing.T) {
		hID := GetID[tplHealth]()
		pool := NewBlockPool(4096, 1, false)
		blk, _ := pool.Acquire()
		hdr := layoutPage(blk, uintptr(pool.BlockSize()), []ComponentID{hID})
		pg := &page{hdr: hdr, blk: blk, compIDs: []ComponentID{hID}}

		tmpl := NewTemplate()
		WithComponent(tmpl, tplHealth{HP: 42})
		WithComponent(tmpl, tplName{}) // present on template, absent from this page's archetype
		slot := pg.Append(Key(1), tmpl)

		got := *(*tplHealth)(pg.componentPtr(hID, slot))
		if got.HP != 42 {
			t.Errorf("expected HP=42, got %d", got.HP)
		}
	})
}
