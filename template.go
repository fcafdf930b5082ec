package ecs

import "unsafe"

// MaxComponentValueSize bounds the size of a single component value that can
// ride through a template or a queued insert. It is a practical ceiling (not
// named by the spec), chosen generously for typical ECS payloads (vectors,
// transforms, small structs) so that command-queue records stay fixed-size
// and therefore safely block-chainable without embedding Go pointers/slices
// inside pool-owned memory.
const MaxComponentValueSize = 256

// componentValue is a fixed-size, pointer-free byte carrier for one
// component's value — small enough to live inline in a block-chained queue
// page, unlike a slice or map which would hide a Go pointer from the
// allocator that owns the surrounding block.
type componentValue struct {
	size  uint16
	bytes [MaxComponentValueSize]byte
}

func newComponentValue[T any](v T) componentValue {
	var cv componentValue
	size := unsafe.Sizeof(v)
	if size > MaxComponentValueSize {
		fatalf("component value of size %d exceeds MaxComponentValueSize (%d)", size, MaxComponentValueSize)
	}
	cv.size = uint16(size)
	if size > 0 {
		*(*T)(unsafe.Pointer(&cv.bytes[0])) = v
	}
	return cv
}

func (cv *componentValue) writeTo(dst unsafe.Pointer) {
	if dst == nil {
		return
	}
	memcopy(dst, unsafe.Pointer(&cv.bytes[0]), uintptr(cv.size))
}

// Template is a record of optional component values: a present field
// indicates the component should be set to the given value, an absent field
// means the entity simply lacks that component. Used both to queue a create
// and, internally, as the staging record during insert/remove archetype
// migration.
type Template struct {
	set    componentSet
	values map[ComponentID]componentValue
}

// NewTemplate returns an empty template with no components set.
func NewTemplate() *Template {
	return &Template{values: make(map[ComponentID]componentValue)}
}

// WithComponent sets T's value on the template and returns it, so calls can
// be chained: WithComponent(WithComponent(t, a), b).
func WithComponent[T any](t *Template, v T) *Template {
	id := GetID[T]()
	t.values[id] = newComponentValue(v)
	t.set = t.set.with(uint32(id))
	return t
}

// Has reports whether the template has a value set for id.
func (t *Template) Has(id ComponentID) bool {
	return t.set.has(uint32(id))
}

// ComponentSet returns the set of components this template assigns.
func (t *Template) ComponentSet() componentSet {
	return t.set
}

// writeInto copies every component value the page's archetype has and the
// template sets into the given slot. Components present on the page but
// absent from the template are left as whatever the slot already holds
// (callers append into fresh slots, so that is always the zero value).
func (t *Template) writeInto(pg *page, slot int) {
	for _, id := range pg.compIDs {
		if cv, ok := t.values[id]; ok {
			cv.writeTo(pg.componentPtr(id, slot))
		}
	}
}
