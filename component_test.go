package ecs

import "testing"

type ctPosition struct{ X, Y float64 }
type ctVelocity struct{ X, Y float64 }

func TestComponentRegistry(t *testing.T) {
	t.Run("GetID is idempotent", func(t *testing.T) {
		a := GetID[ctPosition]()
		b := GetID[ctPosition]()
		if a != b {
			t.Errorf("expected stable id, got %d then %d", a, b)
		}
	})

	t.Run("distinct types get distinct ids", func(t *testing.T) {
		p := GetID[ctPosition]()
		v := GetID[ctVelocity]()
		if p == v {
			t.Error("expected distinct ids for distinct types")
		}
	})

	t.Run("TryGetID reports unregistered types", func(t *testing.T) {
		type neverRegistered struct{ Z int }
		if _, ok := TryGetID[neverRegistered](); ok {
			t.Error("expected false for a never-registered type")
		}
		GetID[neverRegistered]()
		if _, ok := TryGetID[neverRegistered](); !ok {
			t.Error("expected true once registered")
		}
	})

	t.Run("registeredComponentsInOrder is dense and ascending", func(t *testing.T) {
		type orderProbe struct{ A int }
		id := GetID[orderProbe]()
		order := registeredComponentsInOrder()
		if int(id) >= len(order) {
			t.Fatalf("id %d out of range of order list of length %d", id, len(order))
		}
		for i, got := range order {
			if got != ComponentID(i) {
				t.Fatalf("index %d: expected id %d, got %d", i, i, got)
			}
		}
	})
}

func TestAlignUp(t *testing.T) {
	cases := []struct {
		x, align, want uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{5, 4, 8},
		{5, 0, 5},
	}
	for _, c := range cases {
		if got := alignUp(c.x, c.align); got != c.want {
			t.Errorf("alignUp(%d,%d) = %d, want %d", c.x, c.align, got, c.want)
		}
	}
}
