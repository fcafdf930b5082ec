package ecs

import "fmt"

// ErrOutOfMemory reports that the block pool could not satisfy an allocation
// during the named operation. The caller may free blocks and retry; nothing
// queued before the failing item was lost (resolve applies peek-then-pop).
type ErrOutOfMemory struct {
	Op string
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("ecs: out of memory during %s", e.Op)
}

// ErrCapabilityViolation reports that a view or query reached past its
// declared component/queue/resource capability set.
type ErrCapabilityViolation struct {
	Detail string
}

func (e *ErrCapabilityViolation) Error() string {
	return fmt.Sprintf("ecs: capability violation: %s", e.Detail)
}

// fatalf panics on a corrupted invariant: double insert of an existing key,
// an impossible archetype, a directory update that should never fail. These
// are assertion failures, not recoverable errors — spec.md §7 treats them as
// contract violations that abort the process in debug builds.
func fatalf(format string, args ...any) {
	panic(fmt.Errorf("ecs: invariant violation: "+format, args...))
}
