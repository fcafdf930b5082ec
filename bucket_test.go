package ecs

import "testing"

// a simple in-memory key table standing in for World.keyLookup in bucket and
// directory tests, so these subsystems can be exercised without a full World.
type fakeKeyTable struct {
	keys map[pageID]map[int32]Key
}

func newFakeKeyTable() *fakeKeyTable {
	return &fakeKeyTable{keys: make(map[pageID]map[int32]Key)}
}

func (f *fakeKeyTable) put(pid pageID, slot int32, k Key) {
	m, ok := f.keys[pid]
	if !ok {
		m = make(map[int32]Key)
		f.keys[pid] = m
	}
	m[slot] = k
}

func (f *fakeKeyTable) lookup(pid pageID, slot int32) Key {
	return f.keys[pid][slot]
}

func TestBucket(t *testing.T) {
	t.Run("insert then get round-trips", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		k := Key(123456789)
		tbl.put(1, 0, k)
		if ok := b.Insert(tbl.lookup, k, 1, 0); !ok {
			t.Fatal("expected insert to succeed")
		}
		pid, slot, ok := b.Get(tbl.lookup, k)
		if !ok || pid != 1 || slot != 0 {
			t.Errorf("expected (1,0,true), got (%d,%d,%v)", pid, slot, ok)
		}
	})

	t.Run("insert existing key is a no-op", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		k := Key(42)
		tbl.put(1, 0, k)
		b.Insert(tbl.lookup, k, 1, 0)
		if ok := b.Insert(tbl.lookup, k, 2, 5); ok {
			t.Error("expected re-insert of existing key to report false")
		}
		if got := b.Len(); got != 1 {
			t.Errorf("expected len 1, got %d", got)
		}
	})

	t.Run("update moves a key's stored location", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		k := Key(777)
		tbl.put(1, 0, k)
		b.Insert(tbl.lookup, k, 1, 0)
		tbl.put(2, 9, k)
		if ok := b.Update(tbl.lookup, k, 2, 9); !ok {
			t.Fatal("expected update to succeed")
		}
		pid, slot, ok := b.Get(tbl.lookup, k)
		if !ok || pid != 2 || slot != 9 {
			t.Errorf("expected (2,9,true), got (%d,%d,%v)", pid, slot, ok)
		}
	})

	t.Run("remove deletes and subsequent get misses", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		k := Key(99)
		tbl.put(1, 0, k)
		b.Insert(tbl.lookup, k, 1, 0)
		if ok := b.Remove(tbl.lookup, k); !ok {
			t.Fatal("expected remove to succeed")
		}
		if _, _, ok := b.Get(tbl.lookup, k); ok {
			t.Error("expected miss after remove")
		}
		if got := b.Len(); got != 0 {
			t.Errorf("expected len 0, got %d", got)
		}
	})

	t.Run("remove non-existent key returns false", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		if ok := b.Remove(tbl.lookup, Key(1)); ok {
			t.Error("expected false removing a key never inserted")
		}
	})

	t.Run("robin-hood insert preserves every key under collisions", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		n := b.capacity - 1 // stay below full capacity; Insert does not check the split threshold
		keys := make([]Key, 0, n)
		for i := 0; i < n; i++ {
			// every key's bucketSeed (bits 36+) is zero for small values, so
			// every one of these lands on the same home slot, forcing the
			// robin-hood displacement path on every insert after the first.
			k := Key(i + 1)
			tbl.put(1, int32(i), k)
			if !b.Insert(tbl.lookup, k, 1, int32(i)) {
				t.Fatalf("insert %d failed", i)
			}
			keys = append(keys, k)
		}
		for i, k := range keys {
			if _, _, ok := b.Get(tbl.lookup, k); !ok {
				t.Errorf("key %d (index %d) missing after colliding inserts", k, i)
			}
		}
	})

	t.Run("ShouldSplit and Mergeable thresholds", func(t *testing.T) {
		tbl := newFakeKeyTable()
		b := newBucket(0, 4096)
		if b.ShouldSplit() {
			t.Error("empty bucket should not need a split")
		}
		if !b.Mergeable() {
			t.Error("empty bucket should be mergeable")
		}
		for i := 0; 9*b.Len() <= 8*b.capacity; i++ {
			k := Key(i + 1)
			tbl.put(1, int32(i), k)
			if !b.Insert(tbl.lookup, k, 1, int32(i)) {
				break
			}
		}
		if !b.ShouldSplit() {
			t.Error("expected ShouldSplit once past the 8/9 threshold")
		}
	})
}
