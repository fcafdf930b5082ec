package ecs

import "fmt"

// View is an opaque, capability-bearing handle through which a World is
// inspected or mutated: it carries the component read/write sets, queue
// write/read-write sets, and resource set a caller declared when the view
// was constructed (spec.md §4.7). The component, resource, and queue
// push/pop/peek/reset accessors check against these sets before touching
// memory; CountQueue does not consult them.
type View struct {
	world *World

	componentRead      componentSet
	componentReadWrite componentSet

	queueWrite     map[uint32]bool
	queueReadWrite map[uint32]bool

	resources resourceSet
}

// World returns the world this view was constructed over.
func (v *View) World() *World { return v.world }

func (v *View) checkRead(id ComponentID) {
	if v == nil {
		return
	}
	if !v.componentRead.has(uint32(id)) && !v.componentReadWrite.has(uint32(id)) {
		panic(&ErrCapabilityViolation{Detail: fmt.Sprintf("component %d not in view's readable set", id)})
	}
}

func (v *View) checkWrite(id ComponentID) {
	if v == nil {
		return
	}
	if !v.componentReadWrite.has(uint32(id)) {
		panic(&ErrCapabilityViolation{Detail: fmt.Sprintf("component %d not in view's writable set", id)})
	}
}

func (v *View) checkQueueWrite(id uint32) {
	if v == nil {
		return
	}
	if !v.queueWrite[id] && !v.queueReadWrite[id] {
		panic(&ErrCapabilityViolation{Detail: "queue not in view's writable set"})
	}
}

func (v *View) checkQueueReadWrite(id uint32) {
	if v == nil {
		return
	}
	if !v.queueReadWrite[id] {
		panic(&ErrCapabilityViolation{Detail: "queue not in view's read-write set"})
	}
}

// Query validates q against this view's capabilities and returns a
// PageIterator over the world's matching pages.
func (v *View) Query(q QueryInfo) (*PageIterator, error) {
	if err := q.validateAgainst(v); err != nil {
		return nil, err
	}
	return v.world.PageIterator(q), nil
}
