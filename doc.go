/*
Package ecs implements the storage core of an in-memory archetype-based
Entity-Component-System: entity keys are mapped to (page, slot) locations by
an extendible-hash directory of robin-hood buckets, component data for each
archetype lives in fixed-size pages carved from a shared block pool, and all
structural mutation (create, destroy, add-component, remove-component) is
deferred through per-kind command queues and realized by an explicit resolve
step between frames.

Core concepts:

  - Key: a stable, never-reused 64-bit entity identifier produced by a
    xorshift* generator.
  - Archetype: the set of components present on a group of entities,
    represented as a fixed-size bitset.
  - Page: a block-sized record container holding one key column plus one
    column per component present in its archetype.
  - Directory: an extendible-hash index from key to (page, slot).
  - World: owns the pool, directory, pages, and command queues; exposes
    deferred mutation and page/entity iteration through capability-gated
    views.

Basic usage:

	pool := ecs.NewBlockPool(ecs.Config.BlockSize, 4, true)
	keygen := ecs.NewKeyGenerator()
	world := ecs.NewWorld(pool, keygen)

	tmpl := ecs.NewTemplate()
	ecs.WithComponent(tmpl, Position{X: 1, Y: 2})
	key, err := world.QueueCreate(tmpl)
	if err != nil {
		// handle OOM
	}
	if err := world.ResolveQueues(); err != nil {
		// handle OOM
	}

	if ev, ok := world.Entity(key); ok {
		pos := ecs.Get[Position](nil, ev)
		_ = pos
	}

ecsforge grew out of an archetype-ECS lineage (the same family as the
bappa/warehouse and lazyecs projects) but targets the spec's deferred-mutation,
block-pool-backed core rather than a growable-slice-per-archetype design.
*/
package ecs
