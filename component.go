package ecs

import (
	"reflect"
	"sync"
	"unsafe"
)

// ComponentID is a small, dense integer assigned the first time a component
// type is registered. Assignment order is registration order, which this
// package treats as the "declaration order" spec.md's resolve and page
// layout rules refer to.
type ComponentID uint32

type componentInfo struct {
	typ   reflect.Type
	size  uintptr
	align uintptr
}

// componentRegistry maps component Go types to dense ids, mirroring the
// teacher's reflect.Type-keyed registration but additionally recording
// alignment, which the teacher's independent byte-slice columns never
// needed and page layout (spec.md §3/§4.3) does.
type componentRegistryT struct {
	mu     sync.Mutex
	byType map[reflect.Type]ComponentID
	infos  []componentInfo
}

var componentRegistry = componentRegistryT{
	byType: make(map[reflect.Type]ComponentID),
}

func (r *componentRegistryT) idFor(t reflect.Type) ComponentID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := ComponentID(len(r.infos))
	if int(id) >= maxComponentTypes {
		fatalf("too many registered component types (max %d)", maxComponentTypes)
	}
	r.infos = append(r.infos, componentInfo{
		typ:   t,
		size:  t.Size(),
		align: uintptr(t.Align()),
	})
	r.byType[t] = id
	return id
}

func (r *componentRegistryT) info(id ComponentID) componentInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infos[id]
}

func (r *componentRegistryT) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos)
}

// RegisterComponent assigns (or reuses) a dense ComponentID for T. Safe to
// call multiple times; idempotent per type. Most callers never need to call
// this directly — GetID registers implicitly on first use.
func RegisterComponent[T any]() ComponentID {
	return componentRegistry.idFor(reflect.TypeFor[T]())
}

// GetID returns T's ComponentID, registering it on first use.
func GetID[T any]() ComponentID {
	return componentRegistry.idFor(reflect.TypeFor[T]())
}

// TryGetID returns T's ComponentID without registering it, reporting whether
// T has already been registered.
func TryGetID[T any]() (ComponentID, bool) {
	t := reflect.TypeFor[T]()
	componentRegistry.mu.Lock()
	defer componentRegistry.mu.Unlock()
	id, ok := componentRegistry.byType[t]
	return id, ok
}

func registryInfo(id ComponentID) componentInfo {
	return componentRegistry.info(id)
}

// registeredComponentsInOrder returns every currently-registered component
// id in declaration (registration) order. Resolve walks this list to apply
// each component's insert/remove queues in a fixed, deterministic order.
func registeredComponentsInOrder() []ComponentID {
	n := componentRegistry.count()
	out := make([]ComponentID, n)
	for i := range out {
		out[i] = ComponentID(i)
	}
	return out
}

func alignUp(x, align uintptr) uintptr {
	if align == 0 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

func memcopy(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 || dst == nil || src == nil {
		return
	}
	word := unsafe.Sizeof(uintptr(0))
	words := size / word
	d, s := dst, src
	for i := uintptr(0); i < words; i++ {
		*(*uintptr)(d) = *(*uintptr)(s)
		d = unsafe.Add(d, word)
		s = unsafe.Add(s, word)
	}
	for i := uintptr(0); i < size%word; i++ {
		*(*byte)(d) = *(*byte)(s)
		d = unsafe.Add(d, 1)
		s = unsafe.Add(s, 1)
	}
}
