package ecs

import (
	"reflect"
	"sync"
)

// idRegistry is the same dense reflect.Type→id registration shape as the
// component registry, reused for the two other label spaces a Context
// enumerates: queue message types and resource value types. Each of the
// three registries is independent — a type registered as a component and
// also used as a resource gets two unrelated ids, one per space.
type idRegistry struct {
	mu     sync.Mutex
	byType map[reflect.Type]uint32
	types  []reflect.Type
}

func (r *idRegistry) idFor(t reflect.Type) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byType == nil {
		r.byType = make(map[reflect.Type]uint32)
	}
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := uint32(len(r.types))
	if int(id) >= maxComponentTypes {
		fatalf("too many registered labels (max %d)", maxComponentTypes)
	}
	r.byType[t] = id
	r.types = append(r.types, t)
	return id
}

var queueTypeRegistry idRegistry
var resourceTypeRegistry idRegistry

func queueTypeID[T any]() uint32 {
	return queueTypeRegistry.idFor(reflect.TypeFor[T]())
}

func resourceTypeID[T any]() uint32 {
	return resourceTypeRegistry.idFor(reflect.TypeFor[T]())
}

// resourceSet reuses componentSet's bit shape over the resource id space.
type resourceSet = componentSet

// SetResource stores v as the world's singleton instance of T, registering
// T's resource id on first use.
func SetResource[T any](w *World, v T) {
	id := resourceTypeID[T]()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[id] = v
}

// Resource returns the world's instance of T, and whether one has been set.
// Requires T to be in the view's resource set.
func Resource[T any](v *View) (T, bool) {
	id := resourceTypeID[T]()
	var zero T
	if v != nil && !v.resources.has(id) {
		panic(&ErrCapabilityViolation{Detail: "resource not in view's resource set"})
	}
	val, ok := v.world.resources[id]
	if !ok {
		return zero, false
	}
	return val.(T), true
}

// PushQueue pushes val onto the shared typed message queue for T. Requires
// the queue to be in the view's write or read-write set.
func PushQueue[T any](v *View, val T) error {
	id := queueTypeID[T]()
	v.checkQueueWrite(id)
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	return q.Push(val)
}

// PushQueueAssumeCapacity pushes val without a capacity check; the caller
// must have already reserved room via EnsureQueueCapacity.
func PushQueueAssumeCapacity[T any](v *View, val T) {
	id := queueTypeID[T]()
	v.checkQueueWrite(id)
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	q.PushAssumeCapacity(val)
}

// EnsureQueueCapacity reserves room for at least n more values of T.
func EnsureQueueCapacity[T any](v *View, n int) error {
	id := queueTypeID[T]()
	v.checkQueueWrite(id)
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	return q.EnsureCapacity(n)
}

// PopQueue removes and returns the head value of T's queue. Requires the
// queue to be in the view's read-write set (draining is a read-write act:
// it mutates the shared queue's head).
func PopQueue[T any](v *View) (T, bool) {
	id := queueTypeID[T]()
	v.checkQueueReadWrite(id)
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	return q.Pop()
}

// PeekQueue returns the head value of T's queue without removing it.
func PeekQueue[T any](v *View) (T, bool) {
	id := queueTypeID[T]()
	if v != nil && !v.queueWrite[id] && !v.queueReadWrite[id] {
		panic(&ErrCapabilityViolation{Detail: "queue not in view's writable or read-write set"})
	}
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	return q.Peek()
}

// ResetQueue drops every queued value of T.
func ResetQueue[T any](v *View) {
	id := queueTypeID[T]()
	v.checkQueueReadWrite(id)
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	q.Reset()
}

// CountQueue returns the number of values currently queued of type T.
func CountQueue[T any](v *View) int {
	id := queueTypeID[T]()
	q := v.world.userQueue(id, func() any { return NewQueue[T](v.world.pool) }).(*Queue[T])
	return q.Count()
}
