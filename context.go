package ecs

import "reflect"

// Context is parameterized by three marker struct types enumerating the
// component, queue, and resource label sets a caller is allowed to declare
// views over: field count and field types are the runtime enum this
// package's registries key off. Components, Queues, and Resources are
// ordinary struct types the caller defines once per "kind of system" —
// e.g. `struct { Position Position; Velocity Velocity }` for a physics
// system's component set — never instantiated, only reflected over.
type Context[Components, Queues, Resources any] struct {
	world *World
}

func registerLabelFields[M any](register func(reflect.Type)) {
	t := reflect.TypeFor[M]()
	for i := 0; i < t.NumField(); i++ {
		register(t.Field(i).Type)
	}
}

// NewContext builds a Context over world, registering every field type of
// Components, Queues, and Resources with the corresponding id registry.
func NewContext[Components, Queues, Resources any](world *World) *Context[Components, Queues, Resources] {
	registerLabelFields[Components](func(t reflect.Type) { componentRegistry.idFor(t) })
	registerLabelFields[Queues](func(t reflect.Type) { queueTypeRegistry.idFor(t) })
	registerLabelFields[Resources](func(t reflect.Type) { resourceTypeRegistry.idFor(t) })
	return &Context[Components, Queues, Resources]{world: world}
}

// World returns the world this context was built over.
func (c *Context[Components, Queues, Resources]) World() *World { return c.world }

// ViewCapabilities declares the access a View should be granted: which
// components it may read/write, which queues it may push to or drain, and
// which resources it may access.
type ViewCapabilities struct {
	ComponentRead      componentSet
	ComponentReadWrite componentSet
	QueueWrite         []uint32
	QueueReadWrite     []uint32
	Resources          resourceSet
}

// NewView constructs a View over this context's world with the declared
// capabilities.
func (c *Context[Components, Queues, Resources]) NewView(decl ViewCapabilities) *View {
	qw := make(map[uint32]bool, len(decl.QueueWrite))
	for _, id := range decl.QueueWrite {
		qw[id] = true
	}
	qrw := make(map[uint32]bool, len(decl.QueueReadWrite))
	for _, id := range decl.QueueReadWrite {
		qrw[id] = true
	}
	return &View{
		world:              c.world,
		componentRead:      decl.ComponentRead,
		componentReadWrite: decl.ComponentReadWrite,
		queueWrite:         qw,
		queueReadWrite:     qrw,
		resources:          decl.Resources,
	}
}

// Eval invokes fn with a freshly constructed view carrying the capability
// set decl declares. fn may be fallible; its error propagates unchanged.
func Eval[Components, Queues, Resources any](c *Context[Components, Queues, Resources], decl ViewCapabilities, fn func(*View) error) error {
	return fn(c.NewView(decl))
}
