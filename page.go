package ecs

import "unsafe"

// pageHeader sits at the start of every archetype page's block. Offsets are
// byte offsets from the block's base pointer; zero means "component absent
// from this page's archetype" (spec.md §3 invariant).
type pageHeader struct {
	capacity int
	length   int
	keysOff  uintptr
	compOffs [maxComponentTypes]uintptr
}

// page is one block-sized record container for a single archetype: a key
// column followed by one column per present component, laid out at creation
// time and never relaid-out for the life of the page.
type page struct {
	hdr     *pageHeader
	blk     block
	id      pageID
	arch    *Archetype
	compIDs []ComponentID // this page's archetype's components, ascending
}

var keySize = unsafe.Sizeof(Key(0))

// layoutPage computes and writes the header for a freshly acquired block,
// choosing the largest capacity whose key column plus every present
// component column fits inside the block. Alignment padding can make a
// naively-estimated capacity not fit, so capacity is reduced and the layout
// recomputed until it does (spec.md §4.3).
func layoutPage(blk block, blockSize uintptr, compIDs []ComponentID) *pageHeader {
	base := uintptr(blk)
	hdr := (*pageHeader)(unsafe.Pointer(blk))
	*hdr = pageHeader{}

	headerSize := unsafe.Sizeof(pageHeader{})
	rowBytes := keySize
	for _, id := range compIDs {
		info := registryInfo(id)
		rowBytes += info.size
	}
	cap := 1
	if rowBytes > 0 {
		cap = int((blockSize - headerSize) / rowBytes)
	}
	if cap < 1 {
		cap = 1
	}

	for {
		cursor := alignUp(base+headerSize, uintptr(keySize))
		keysOff := cursor - base
		cursor += uintptr(cap) * keySize

		fits := true
		var offs [maxComponentTypes]uintptr
		for _, id := range compIDs {
			info := registryInfo(id)
			cursor = alignUp(cursor, info.align)
			end := cursor + uintptr(cap)*info.size
			if end > base+blockSize {
				fits = false
				break
			}
			offs[id] = cursor - base
			cursor = end
		}

		if fits && cursor <= base+blockSize {
			hdr.capacity = cap
			hdr.length = 0
			hdr.keysOff = keysOff
			hdr.compOffs = offs
			return hdr
		}
		cap--
		if cap <= 0 {
			fatalf("page layout: block too small to hold a single entry for this archetype")
		}
	}
}

func (pg *page) Len() int      { return pg.hdr.length }
func (pg *page) Cap() int      { return pg.hdr.capacity }
func (pg *page) Full() bool    { return pg.hdr.length >= pg.hdr.capacity }
func (pg *page) IsEmpty() bool { return pg.hdr.length == 0 }

func (pg *page) keyAt(slot int) *Key {
	base := uintptr(pg.blk) + pg.hdr.keysOff
	return (*Key)(unsafe.Pointer(base + uintptr(slot)*keySize))
}

// HasComponent reports whether this page's archetype has component id.
func (pg *page) HasComponent(id ComponentID) bool {
	return int(id) < len(pg.hdr.compOffs) && pg.hdr.compOffs[id] != 0
}

// componentPtr returns a pointer to component id's value at slot, or nil if
// the page's archetype lacks id.
func (pg *page) componentPtr(id ComponentID, slot int) unsafe.Pointer {
	off := pg.hdr.compOffs[id]
	if off == 0 {
		return nil
	}
	info := registryInfo(id)
	return unsafe.Pointer(uintptr(pg.blk) + off + uintptr(slot)*info.size)
}

// Append writes key and the template's present fields into a fresh slot and
// returns the slot index. Panics if the page is already full.
func (pg *page) Append(key Key, tmpl *Template) int {
	if pg.Full() {
		fatalf("page append called on a full page")
	}
	slot := pg.hdr.length
	*pg.keyAt(slot) = key
	tmpl.writeInto(pg, slot)
	pg.hdr.length++
	return slot
}

// Erase swap-removes the entry at slot with the last entry. Returns NilKey
// if slot was already the last entry, otherwise returns the key that moved
// into slot so the caller can patch the directory.
func (pg *page) Erase(slot int) Key {
	last := pg.hdr.length - 1
	if slot < 0 || slot > last {
		fatalf("page erase: slot %d out of range [0,%d]", slot, last)
	}
	if slot == last {
		pg.hdr.length--
		return NilKey
	}
	movedKey := *pg.keyAt(last)
	*pg.keyAt(slot) = movedKey
	for _, id := range pg.compIDs {
		info := registryInfo(id)
		dst := pg.componentPtr(id, slot)
		src := pg.componentPtr(id, last)
		memcopy(dst, src, info.size)
	}
	pg.hdr.length--
	return movedKey
}

// snapshotTemplate captures every present component's current value at slot
// into a fresh Template, used as the migration staging record when an
// entity moves to a different archetype.
func snapshotTemplate(pg *page, slot int) *Template {
	t := NewTemplate()
	for _, id := range pg.compIDs {
		info := registryInfo(id)
		var cv componentValue
		cv.size = uint16(info.size)
		memcopy(unsafe.Pointer(&cv.bytes[0]), pg.componentPtr(id, slot), info.size)
		t.values[id] = cv
		t.set = t.set.with(uint32(id))
	}
	return t
}
