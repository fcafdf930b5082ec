package ecs

// directoryEntry pairs a bucket with the local depth at which it was
// created. Multiple adjacent directory slots may point at the same bucket
// once its local depth is below the global depth.
type directoryEntry struct {
	bucket     *Bucket
	localDepth uint
}

// Directory is the extendible-hash index from Key to (pageID, slot). Global
// depth is len(entries) = 2^depth; a key's slot is its low `depth` bits.
type Directory struct {
	entries   []directoryEntry
	depth     uint
	blockSize int
}

func newDirectory(blockSize int) *Directory {
	return &Directory{blockSize: blockSize}
}

func (d *Directory) slotFor(k Key) int {
	if len(d.entries) == 0 {
		return 0
	}
	mask := uint64(len(d.entries)) - 1
	return int(uint64(k) & mask)
}

func (d *Directory) bucketFor(k Key) *Bucket {
	return d.entries[d.slotFor(k)].bucket
}

// grow doubles the directory, duplicating every existing slot so both
// halves point at the same bucket; local depths are unaffected.
func (d *Directory) grow() {
	old := d.entries
	d.entries = make([]directoryEntry, len(old)*2)
	copy(d.entries, old)
	copy(d.entries[len(old):], old)
	d.depth++
}

// split replaces the bucket at idx with two new buckets of local depth+1,
// rehashing its contents by the newly-significant bit, and repoints every
// directory slot that referenced the old bucket.
func (d *Directory) split(lookup keyLookup, idx int) {
	old := d.entries[idx].bucket
	newDepth := d.entries[idx].localDepth + 1
	bit := uint64(1) << (newDepth - 1)

	b0 := newBucket(newDepth, d.blockSize)
	b1 := newBucket(newDepth, d.blockSize)
	old.forEach(lookup, func(k Key, pid pageID, slot int32) {
		if uint64(k)&bit != 0 {
			b1.Insert(lookup, k, pid, slot)
		} else {
			b0.Insert(lookup, k, pid, slot)
		}
	})

	for i := range d.entries {
		if d.entries[i].bucket == old {
			if uint64(i)&bit != 0 {
				d.entries[i] = directoryEntry{bucket: b1, localDepth: newDepth}
			} else {
				d.entries[i] = directoryEntry{bucket: b0, localDepth: newDepth}
			}
		}
	}
}

// Ensure guarantees there is room to insert k: creates the initial bucket if
// the directory is empty, then grows/splits until the target bucket is
// under the split threshold.
func (d *Directory) Ensure(lookup keyLookup, k Key) error {
	if len(d.entries) == 0 {
		d.entries = []directoryEntry{{bucket: newBucket(0, d.blockSize), localDepth: 0}}
		d.depth = 0
	}
	for {
		idx := d.slotFor(k)
		b := d.entries[idx].bucket
		if !b.ShouldSplit() && b.Len() < b.capacity {
			return nil
		}
		if d.entries[idx].localDepth == d.depth {
			d.grow()
			idx = d.slotFor(k)
		}
		d.split(lookup, idx)
	}
}

// Insert dispatches to the target bucket.
func (d *Directory) Insert(lookup keyLookup, k Key, pid pageID, slot int32) bool {
	return d.bucketFor(k).Insert(lookup, k, pid, slot)
}

// Update dispatches to the target bucket.
func (d *Directory) Update(lookup keyLookup, k Key, pid pageID, slot int32) bool {
	return d.bucketFor(k).Update(lookup, k, pid, slot)
}

// Remove dispatches to the target bucket.
func (d *Directory) Remove(lookup keyLookup, k Key) bool {
	return d.bucketFor(k).Remove(lookup, k)
}

// Get dispatches to the target bucket, returning false immediately if the
// directory has not been created yet.
func (d *Directory) Get(lookup keyLookup, k Key) (pageID, int32, bool) {
	if len(d.entries) == 0 {
		return 0, 0, false
	}
	return d.bucketFor(k).Get(lookup, k)
}

// Compact merges sibling bucket pairs that are both underfull, repeatedly
// halving the directory while every sibling pair has either already
// collapsed onto one bucket or just been merged into one. Drops the sole
// remaining bucket entirely once it is empty.
func (d *Directory) Compact(lookup keyLookup) {
	for len(d.entries) > 1 {
		half := len(d.entries) / 2
		allCollapsedOrMerged := true
		for i := 0; i < half; i++ {
			j := i + half
			bi, bj := d.entries[i].bucket, d.entries[j].bucket
			if bi == bj {
				continue
			}
			if bi.Mergeable() && bj.Mergeable() {
				newDepth := d.entries[i].localDepth - 1
				merged := newBucket(newDepth, d.blockSize)
				bi.forEach(lookup, func(k Key, pid pageID, slot int32) {
					merged.Insert(lookup, k, pid, slot)
				})
				bj.forEach(lookup, func(k Key, pid pageID, slot int32) {
					merged.Insert(lookup, k, pid, slot)
				})
				for idx := range d.entries {
					if d.entries[idx].bucket == bi || d.entries[idx].bucket == bj {
						d.entries[idx] = directoryEntry{bucket: merged, localDepth: newDepth}
					}
				}
			} else {
				allCollapsedOrMerged = false
			}
		}
		if !allCollapsedOrMerged {
			break
		}
		stillPaired := false
		for i := 0; i < half; i++ {
			if d.entries[i].bucket != d.entries[i+half].bucket {
				stillPaired = true
				break
			}
		}
		if stillPaired {
			break
		}
		d.entries = d.entries[:half]
		d.depth--
	}
	if len(d.entries) == 1 && d.entries[0].bucket.Len() == 0 {
		d.entries = nil
		d.depth = 0
	}
}
