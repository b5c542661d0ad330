// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"encoding/binary"
	"sync"
)

// Seed is the in-memory representation of a pool's accumulator: eight
// native-endian words holding the same value as a canonical big-endian
// 64-byte digest. Per the endianness convention, it is never byte-swapped
// in storage; only bytes() and seedFromBytes() cross between the two
// views, and both use the same convention.
type Seed [8]uint64

func seedFromBytes(b [SeedBytes]byte) Seed {
	var s Seed
	for i := range s {
		s[i] = binary.BigEndian.Uint64(b[i*8:])
	}
	return s
}

func (s Seed) bytes() [SeedBytes]byte {
	var b [SeedBytes]byte
	for i, w := range s {
		binary.BigEndian.PutUint64(b[i*8:], w)
	}
	return b
}

// hash chain domain tags. Each pool's initial seed is SHA512(IV, domainTag),
// giving each pool its own starting point; the output generator uses domain
// 3 to keep the output hash distinct from either input chain.
const (
	domainFastSeed = 1
	domainSlowSeed = 2
	domainOutput   = 3
)

// Initial seed constants, computed offline as SHA512(IV, domainTag) and
// baked in here the way the original driver ships them as literal byte
// arrays rather than deriving them at init.
var initialFastSeed = seedFromBytes([SeedBytes]byte{
	0xdf, 0x9c, 0x47, 0x8c, 0x05, 0x32, 0x10, 0x87,
	0xb5, 0x0a, 0x1d, 0x23, 0x9b, 0x4a, 0xab, 0x29,
	0x0e, 0x9b, 0x79, 0x32, 0x52, 0x75, 0x8e, 0x70,
	0x6e, 0x24, 0x31, 0x2a, 0xed, 0x21, 0xc2, 0x90,
	0x72, 0x28, 0x5e, 0x43, 0x6a, 0x20, 0xc3, 0xc6,
	0x22, 0x7f, 0x99, 0xb7, 0x36, 0x38, 0xf0, 0x41,
	0x4f, 0xba, 0x58, 0x35, 0x58, 0x6f, 0xee, 0x4e,
	0x19, 0x23, 0x1c, 0x1e, 0xc5, 0x6d, 0x58, 0xee,
})

var initialSlowSeed = seedFromBytes([SeedBytes]byte{
	0xdf, 0xa8, 0xdb, 0x1c, 0x35, 0x93, 0x19, 0x31,
	0xa6, 0x00, 0x7f, 0x85, 0xa9, 0xf4, 0x03, 0x59,
	0x28, 0xcf, 0x15, 0x93, 0x57, 0xff, 0x8d, 0x68,
	0x2a, 0x50, 0xb6, 0xa0, 0xf3, 0xdf, 0xa0, 0xe0,
	0x20, 0xed, 0x4e, 0xb3, 0x77, 0xf6, 0x01, 0x14,
	0x46, 0xf3, 0x51, 0xf7, 0x00, 0x1b, 0xae, 0x06,
	0x93, 0x2a, 0xd0, 0xcb, 0x66, 0x2e, 0x01, 0xf0,
	0x7a, 0xcf, 0x6a, 0xee, 0x25, 0x7d, 0x3b, 0xad,
})

// Minimum number of hashes before a pool's internal accumulator is
// published to its public seed. The fast pool publishes every fold; the
// slow pool publishes every 50 folds, which is what lets it resist an
// attacker who can checkpoint the public seed but not the internal one.
const (
	minHashesFast = 1
	minHashesSlow = 50
)

// seedPool is one of the two independent entropy accumulators (fast or
// slow). It must never collapse internalSeed and publicSeed into a single
// field, even when minHashes == 1: minHashes is per-pool configuration and
// both modes coexist.
type seedPool struct {
	mu sync.Mutex

	publicSeed   Seed
	internalSeed Seed
	hashCount    uint32
	minHashes    uint32
}

func newFastSeedPool() *seedPool {
	return &seedPool{publicSeed: initialFastSeed, internalSeed: initialFastSeed, minHashes: minHashesFast}
}

func newSlowSeedPool() *seedPool {
	return &seedPool{publicSeed: initialSlowSeed, internalSeed: initialSlowSeed, minHashes: minHashesSlow}
}

// fold compresses a full input block into the pool, under the pool's lock.
// If minHashes <= 1 the block is folded directly into the public seed.
// Otherwise it is folded into the internal seed, and the internal seed is
// published to the public seed every minHashes-th fold.
func (p *seedPool) fold(block *[InputBytes]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.minHashes <= 1 {
		compress((*[8]uint64)(&p.publicSeed), block)
		return
	}

	compress((*[8]uint64)(&p.internalSeed), block)
	p.hashCount++
	if p.hashCount%p.minHashes == 0 {
		p.publicSeed = p.internalSeed
	}
}

// snapshotAndRatchet copies the current public seed out under lock, then
// immediately compresses the public seed in place with block. This is used
// by the output generator to achieve forward secrecy: the value copied out
// cannot be recovered from the pool's post-call state.
func (p *seedPool) snapshotAndRatchet(block *[InputBytes]byte) Seed {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.publicSeed
	compress((*[8]uint64)(&p.publicSeed), block)
	return out
}

// snapshot copies the current public seed out under lock, without
// disturbing pool state.
func (p *seedPool) snapshot() Seed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publicSeed
}

// hashCountSnapshot reports the current hash_count, for tests and
// diagnostics only.
func (p *seedPool) hashCountSnapshot() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hashCount
}
