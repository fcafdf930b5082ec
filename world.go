package ecs

import (
	"sync"
)

// World holds the block pool and key generator it was built with (it does
// not own them; see NewWorld) and owns the full page list, the directory,
// and the command queues used to stage every structural mutation until the
// next resolve.
// Per spec.md §5, a World is single-writer: ResolveQueues must not run
// concurrently with another ResolveQueues on the same world, but any number
// of readers may iterate pages between resolves. mu enforces exactly that
// posture: ResolveQueues takes the write lock, read-only operations
// (Entity, PageIterator) take the read lock.
type World struct {
	mu sync.RWMutex

	pool   *BlockPool
	keygen *KeyGenerator

	pages       []*page
	freePageIDs []pageID

	archetypesByID map[componentSet]*Archetype
	archetypes     []*Archetype

	dir *Directory
	hot *hotPageCache

	createQ   *Queue[createHeader]
	templates *templateArena
	destroyQ  *Queue[Key]
	insertQs  map[ComponentID]*Queue[insertRecord]
	removeQs  map[ComponentID]*Queue[Key]

	userQueues map[uint32]any
	resources  map[uint32]any

	parents          map[Key]Key
	destroyCallbacks map[Key]func(Key)
}

// NewWorld constructs a world backed by pool and keygen. Both must outlive
// the world; the world does not take ownership of either (they may be
// shared across multiple worlds, matching spec.md §4.1/§3's "shared" pool
// and generator).
func NewWorld(pool *BlockPool, keygen *KeyGenerator) *World {
	return &World{
		pool:             pool,
		keygen:           keygen,
		archetypesByID:   make(map[componentSet]*Archetype),
		dir:              newDirectory(pool.BlockSize()),
		hot:              newHotPageCache(Config.HotPageCacheSize),
		createQ:          NewQueue[createHeader](pool),
		templates:        newTemplateArena(),
		destroyQ:         NewQueue[Key](pool),
		insertQs:         make(map[ComponentID]*Queue[insertRecord]),
		removeQs:         make(map[ComponentID]*Queue[Key]),
		userQueues:       make(map[uint32]any),
		resources:        make(map[uint32]any),
		parents:          make(map[Key]Key),
		destroyCallbacks: make(map[Key]func(Key)),
	}
}

func (w *World) keyLookup(pid pageID, slot int32) Key {
	return *w.pages[pid-1].keyAt(int(slot))
}

// QueueCreate stages a new entity for creation with the given component
// values, returning its key immediately. The entity is not visible to
// Entity/PageIterator until the next ResolveQueues.
func (w *World) QueueCreate(tmpl *Template) (Key, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := w.keygen.Next()
	id := w.templates.store(tmpl)
	if err := w.createQ.Push(createHeader{key: key, templateID: id}); err != nil {
		w.templates.release(id)
		return NilKey, err
	}
	return key, nil
}

// QueueDestroy stages key for destruction. Destroying an already-destroyed
// or never-created key is legal and idempotent (spec.md §4.8).
func (w *World) QueueDestroy(k Key) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyQ.Push(k)
}

func (w *World) insertQueueFor(id ComponentID) *Queue[insertRecord] {
	q, ok := w.insertQs[id]
	if !ok {
		q = NewQueue[insertRecord](w.pool)
		w.insertQs[id] = q
	}
	return q
}

func (w *World) removeQueueFor(id ComponentID) *Queue[Key] {
	q, ok := w.removeQs[id]
	if !ok {
		q = NewQueue[Key](w.pool)
		w.removeQs[id] = q
	}
	return q
}

// QueueInsert stages adding component T with value v to the entity keyed by
// k. A no-op at resolve time if the entity already has T.
func QueueInsert[T any](w *World, k Key, v T) error {
	id := GetID[T]()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insertQueueFor(id).Push(insertRecord{key: k, value: newComponentValue(v)})
}

// QueueRemove stages removing component T from the entity keyed by k. A
// no-op at resolve time if the entity lacks T.
func QueueRemove[T any](w *World, k Key) error {
	id := GetID[T]()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removeQueueFor(id).Push(k)
}

// Entity returns a view of the entity currently stored at key, or
// false if no such entity exists (it was never created, was destroyed, or
// its create is still queued and unresolved).
func (w *World) Entity(k Key) (*EntityView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	pid, slot, ok := w.dir.Get(w.keyLookup, k)
	if !ok {
		return nil, false
	}
	return &EntityView{world: w, key: k, pg: w.pages[pid-1], slot: int(slot)}, true
}

// getOrCreateArchetype returns the Archetype for set, creating and
// registering it on first use.
func (w *World) getOrCreateArchetype(set componentSet) *Archetype {
	if a, ok := w.archetypesByID[set]; ok {
		return a
	}
	a := &Archetype{
		id:      archetypeID(len(w.archetypes)),
		set:     set,
		compIDs: set.toSortedSlice(),
		pool:    w.pool,
	}
	w.archetypesByID[set] = a
	w.archetypes = append(w.archetypes, a)
	return a
}

func (w *World) registerPage(pg *page) pageID {
	if n := len(w.freePageIDs); n > 0 {
		pid := w.freePageIDs[n-1]
		w.freePageIDs = w.freePageIDs[:n-1]
		w.pages[pid-1] = pg
		return pid
	}
	w.pages = append(w.pages, pg)
	return pageID(len(w.pages))
}

// pageForArchetype returns a page with room for one more entity, consulting
// the hot-page cache before falling back to a linear scan of arch's pages
// and finally allocating a fresh page.
func (w *World) pageForArchetype(arch *Archetype) (*page, error) {
	if pg := w.hot.lookup(arch.id); pg != nil {
		return pg, nil
	}
	if pg := arch.findNonFullPage(); pg != nil {
		w.hot.remember(arch.id, pg)
		return pg, nil
	}
	pg, err := arch.newPage()
	if err != nil {
		return nil, err
	}
	pg.id = w.registerPage(pg)
	w.hot.remember(arch.id, pg)
	return pg, nil
}

// userQueue returns the shared typed queue registered under id, lazily
// constructing it via create on first use.
func (w *World) userQueue(id uint32, create func() any) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.userQueues[id]
	if !ok {
		q = create()
		w.userQueues[id] = q
	}
	return q
}

// SetParent records a supplemental parent relationship for k, used only by
// EntityView.Parent; it has no effect on archetype, page, bucket, or
// directory semantics.
func (w *World) SetParent(child, parent Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.parents[child] = parent
}

// SetDestroyCallback registers fn to be invoked with k's key when k is
// destroyed during resolve's destroy phase.
func (w *World) SetDestroyCallback(k Key, fn func(Key)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyCallbacks[k] = fn
}
