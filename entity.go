package ecs

// EntityView is a read/write handle onto one entity's current (page, slot)
// location, obtained from World.Entity or from an EntityIterator. It is
// invalidated by any structural change to its page — callers must not hold
// one across a ResolveQueues call.
type EntityView struct {
	world *World
	key   Key
	pg    *page
	slot  int
	query *QueryInfo // nil when obtained via World.Entity rather than iteration
}

// Key returns the entity's stable key.
func (e *EntityView) Key() Key { return e.key }

func (e *EntityView) allowedRead(id ComponentID) bool {
	if e.query == nil {
		return true
	}
	q := e.query
	return q.IncludeRead.has(uint32(id)) || q.IncludeReadWrite.has(uint32(id)) ||
		q.OptionalRead.has(uint32(id)) || q.OptionalReadWrite.has(uint32(id))
}

func (e *EntityView) allowedWrite(id ComponentID) bool {
	if e.query == nil {
		return true
	}
	q := e.query
	return q.IncludeReadWrite.has(uint32(id)) || q.OptionalReadWrite.has(uint32(id))
}

// Get returns component T's value on e. Requires T to be in the view's (and,
// if e came from an iterator, the active query's) include/read set; panics
// with ErrCapabilityViolation if the view disallows it, and with a fatal
// invariant error if e's archetype lacks T entirely (callers are expected to
// only call Get for components their query's include set guarantees are
// present).
func Get[T any](v *View, e *EntityView) T {
	id := GetID[T]()
	v.checkRead(id)
	if !e.allowedRead(id) {
		panic(&ErrCapabilityViolation{Detail: "component not in the active query's include/optional sets"})
	}
	ptr := e.pg.componentPtr(id, e.slot)
	if ptr == nil {
		fatalf("get: component not present on entity's archetype")
	}
	return *(*T)(ptr)
}

// GetPtr returns a writable pointer to component T's value on e. Requires T
// to be in the view's read-write set.
func GetPtr[T any](v *View, e *EntityView) *T {
	id := GetID[T]()
	v.checkWrite(id)
	if !e.allowedWrite(id) {
		panic(&ErrCapabilityViolation{Detail: "component not in the active query's read-write sets"})
	}
	ptr := e.pg.componentPtr(id, e.slot)
	if ptr == nil {
		fatalf("getPtr: component not present on entity's archetype")
	}
	return (*T)(ptr)
}

// GetOptional returns component T's value on e and whether it is present.
// Requires T to be in one of the view's read sets.
func GetOptional[T any](v *View, e *EntityView) (T, bool) {
	id := GetID[T]()
	var zero T
	if v != nil && !v.componentRead.has(uint32(id)) && !v.componentReadWrite.has(uint32(id)) {
		panic(&ErrCapabilityViolation{Detail: "component not in view's readable set"})
	}
	ptr := e.pg.componentPtr(id, e.slot)
	if ptr == nil {
		return zero, false
	}
	return *(*T)(ptr), true
}

// GetOptionalPtr returns a writable pointer to component T's value on e and
// whether it is present. Requires T to be in the view's read-write set.
func GetOptionalPtr[T any](v *View, e *EntityView) (*T, bool) {
	id := GetID[T]()
	v.checkWrite(id)
	ptr := e.pg.componentPtr(id, e.slot)
	if ptr == nil {
		return nil, false
	}
	return (*T)(ptr), true
}

// Template captures a snapshot of every component value currently present
// on e into a fresh Template.
func (e *EntityView) Template() *Template {
	return snapshotTemplate(e.pg, e.slot)
}

// Parent returns the entity's recorded parent key, if any, and whether one
// was set via SetParent.
func (e *EntityView) Parent() (Key, bool) {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	p, ok := e.world.parents[e.key]
	return p, ok
}

// SetParent records a supplemental parent relationship for e's entity. This
// is an off-critical-path bookkeeping feature; it does not affect
// archetype, page, bucket, or directory semantics.
func (e *EntityView) SetParent(parent Key) {
	e.world.SetParent(e.key, parent)
}

// SetDestroyCallback registers fn to run when e's entity is destroyed.
func (e *EntityView) SetDestroyCallback(fn func(Key)) {
	e.world.SetDestroyCallback(e.key, fn)
}
