// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"encoding/binary"
	"math/bits"
	"sync/atomic"

	"golang.org/x/crypto/sha3"
)

// swiftBufferBytes is the size of the shared interrupt-sample ring.
const swiftBufferBytes = 1024

// swiftBufferPad reserves trailing bytes past the ring's logical end so an
// 8-byte little-endian store near the wrap point never runs out of bounds.
const swiftBufferPad = 7

// swiftBuffer is the single process-wide ring that records compact
// interrupt-time samples (irq id, folded flags^rip byte, delta-cycles) for
// deferred folding into the input router. Its writer must be wait-free: it
// performs only arithmetic and aligned stores, holds no lock, and accepts
// that concurrent writers on different CPUs may tear its contents. Its
// contents feed entropy, not correctness.
type swiftBuffer struct {
	ring       [swiftBufferBytes + swiftBufferPad]byte
	totalBytes atomic.Uint64
	previousCC atomic.Uint64
	readIndex  atomic.Uint64
}

// foldFlagsAndRIP collapses a correlated 64-bit value (irq_flags XOR return
// address) to a single byte. The original driver XOR-folds 64->32->16->8;
// here that ladder is substituted with the low byte of a SHA3-256 digest of
// the value, which is likewise a deterministic one-byte function of its
// input. Substitution documented per spec.md's design notes.
func foldFlagsAndRIP(a uint64) byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], a)
	sum := sha3.Sum256(buf[:])
	return sum[0]
}

// minBytesToRepresent returns the number of bytes needed to hold value with
// no leading zero bytes, i.e. ceil(bitlen(value)/8).
func minBytesToRepresent(value uint64) int {
	return (bits.Len64(value) + 7) / 8
}

// addInterruptSample is the interrupt-time fast path: given an IRQ number,
// its flags, and the instruction pointer of the interrupted context, append
// a compact entropy sample to the ring.
func (s *swiftBuffer) addInterruptSample(irq int, irqFlags uint64, rip uint64) {
	cycles := cycleCounter()
	folded := foldFlagsAndRIP(irqFlags ^ rip)

	idx := s.totalBytes.Add(1) - 1
	s.ring[idx%swiftBufferBytes] = byte(irq)

	idx = s.totalBytes.Add(1) - 1
	s.ring[idx%swiftBufferBytes] = folded

	prev := s.previousCC.Swap(cycles)
	delta := cycles - prev
	idx = s.totalBytes.Load() % swiftBufferBytes
	binary.LittleEndian.PutUint64(s.ring[idx:idx+8], delta)
	s.totalBytes.Add(uint64(minBytesToRepresent(delta)))
}

// drain copies any unread ring bytes into dst, returning the number of
// bytes copied. It advances the read index so the same bytes are never
// drained twice. The drain path is not itself wait-free (it is only called
// from add_input/generate_bytes, never from interrupt context), matching
// the drain policy spec.md §9 asks an implementer to define.
func (s *swiftBuffer) drain(dst []byte) int {
	total := s.totalBytes.Load()
	read := s.readIndex.Load()
	if total <= read {
		return 0
	}
	avail := total - read
	if avail > swiftBufferBytes {
		// The reader fell behind by more than a full ring; only the
		// most recent ring's worth of samples is still recoverable.
		read = total - swiftBufferBytes
		avail = swiftBufferBytes
	}
	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = s.ring[(read+i)%swiftBufferBytes]
	}
	s.readIndex.Store(read + n)
	return int(n)
}
