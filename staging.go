// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"encoding/binary"
	"runtime"
	"sync"
	"sync/atomic"
)

// inputRecordBytes is the wire width of an inputRecord: four packed u32
// fields.
const inputRecordBytes = 16

// inputRecord is a single caller-supplied sample. A record whose four
// fields sum to zero is a sentinel and is discarded.
type inputRecord struct {
	sourceID uint32
	cycles   uint32
	value1   uint32
	value2   uint32
}

func (r inputRecord) isSentinel() bool {
	return r.sourceID+r.cycles+r.value1+r.value2 == 0
}

func (r inputRecord) bytes() [inputRecordBytes]byte {
	var b [inputRecordBytes]byte
	binary.LittleEndian.PutUint32(b[0:], r.sourceID)
	binary.LittleEndian.PutUint32(b[4:], r.cycles)
	binary.LittleEndian.PutUint32(b[8:], r.value1)
	binary.LittleEndian.PutUint32(b[12:], r.value2)
	return b
}

// stagingSlot is one CPU's staging buffer for one pool: a single SHA-512
// input block that accumulates records until full, then folds into the
// pool.
type stagingSlot struct {
	mu         sync.Mutex
	buf        [InputBytes]byte
	writeIndex int
}

// stagingBank holds one stagingSlot per logical CPU. A goroutine cannot be
// pinned to a CPU the way a kernel thread can (spec.md's "pin to current
// CPU" has no Go analogue), so slots are chosen by striping over
// GOMAXPROCS shards with a round-robin counter instead: this keeps the same
// "disjoint per-shard buffer, no lock needed across shards" shape without
// claiming an affinity guarantee Go cannot make.
type stagingBank struct {
	slots []*stagingSlot
	next  atomic.Uint32
}

func newStagingBank() *stagingBank {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	b := &stagingBank{slots: make([]*stagingSlot, n)}
	for i := range b.slots {
		b.slots[i] = &stagingSlot{}
	}
	return b
}

func (b *stagingBank) shard() *stagingSlot {
	idx := b.next.Add(1) % uint32(len(b.slots))
	return b.slots[idx]
}

// add copies rec into the current shard's staging buffer, folding into
// pool whenever the buffer fills, and wrapping any leftover bytes to the
// front of the buffer.
func (b *stagingBank) add(rec inputRecord, pool *seedPool) {
	slot := b.shard()
	data := rec.bytes()

	slot.mu.Lock()
	defer slot.mu.Unlock()

	space := InputBytes - slot.writeIndex
	take := len(data)
	if take > space {
		take = space
	}
	copy(slot.buf[slot.writeIndex:], data[:take])

	full := take == space
	if full {
		pool.fold(&slot.buf)
	}

	remainder := len(data) - take
	if remainder > 0 {
		copy(slot.buf[:remainder], data[take:])
	}

	if full {
		slot.writeIndex = remainder
	} else {
		slot.writeIndex += take
	}
}
