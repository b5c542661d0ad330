// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"encoding/binary"
	"fmt"
	"io"
)

// counter-mode input block layout. Field offsets are computed from first
// principles (spec.md §9 warns the original INPUT_TRAILING_WORDS macro
// can't just be ported) rather than by reusing the C driver's arithmetic:
// the prefix (domain, two seeds, counter, three caller values) is padded
// with trailing words up to the next whole multiple of InputBytes.
const (
	cmiDomainOff  = 0
	cmiSeed1Off   = cmiDomainOff + 8
	cmiSeed2Off   = cmiSeed1Off + SeedBytes
	cmiCounterOff = cmiSeed2Off + SeedBytes
	cmiValue1Off  = cmiCounterOff + 8
	cmiValue2Off  = cmiValue1Off + 8
	cmiValue3Off  = cmiValue2Off + 8
	cmiPrefixLen  = cmiValue3Off + 8
	cmiTotalLen   = ((cmiPrefixLen + InputBytes - 1) / InputBytes) * InputBytes
	cmiTailWords  = (cmiTotalLen - cmiPrefixLen) / 8
)

// zeroInputBlock is the fixed all-zero block used to ratchet the fast seed.
var zeroInputBlock [InputBytes]byte

// counterModeInput is the structured message fed to the output hash in
// counter mode. It is transient: owned only during a single GenerateBytes
// call and scrubbed on exit.
type counterModeInput struct {
	data [cmiTotalLen]byte
}

func (c *counterModeInput) setDomain(v uint64) {
	binary.LittleEndian.PutUint64(c.data[cmiDomainOff:], v)
}

func (c *counterModeInput) setSeed1(b [SeedBytes]byte) { copy(c.data[cmiSeed1Off:], b[:]) }
func (c *counterModeInput) setSeed2(b [SeedBytes]byte) { copy(c.data[cmiSeed2Off:], b[:]) }

func (c *counterModeInput) setCounterStart(v uint64) {
	binary.LittleEndian.PutUint64(c.data[cmiCounterOff:], v)
}

func (c *counterModeInput) counterField() blockCounter {
	return blockCounter(c.data[cmiCounterOff : cmiCounterOff+8])
}

func (c *counterModeInput) setValue1(v uint64) { binary.LittleEndian.PutUint64(c.data[cmiValue1Off:], v) }
func (c *counterModeInput) setValue2(v uint64) { binary.LittleEndian.PutUint64(c.data[cmiValue2Off:], v) }
func (c *counterModeInput) setValue3(v uint64) { binary.LittleEndian.PutUint64(c.data[cmiValue3Off:], v) }

// fillTail fills the trailing padding words with hardware-random data when
// available, else leaves them zero.
func (c *counterModeInput) fillTail() {
	off := cmiPrefixLen
	for i := 0; i < cmiTailWords; i++ {
		if w, ok := hwRandomWord(); ok {
			binary.LittleEndian.PutUint64(c.data[off:], w)
		}
		off += 8
	}
}

func (c *counterModeInput) zero() {
	for i := range c.data {
		c.data[i] = 0
	}
}

// reserveCounterRange atomically reserves a contiguous range of n output
// counter values, never reused and never decremented, and returns the
// first value in the range.
func (e *Engine) reserveCounterRange(n uint64) uint64 {
	end := e.outputCounter.Add(n)
	return end - n
}

// sourceIDOutputFeedback tags the two inputs GenerateBytes submits around
// its emission phase; they perturb state against frequent-sampling attacks
// without being included in the output they surround.
const sourceIDOutputFeedback = 0xffff0002

func (e *Engine) submitFeedbackInput() {
	c := cycleCounter()
	e.routeInput(inputRecord{
		sourceID: sourceIDOutputFeedback,
		cycles:   uint32(c),
		value1:   uint32(c >> 32),
		value2:   uint32(currentTaskID()),
	})
}

// generateBytes emits length bytes of keystream to dst, which may be a
// plain in-process buffer (wrapped in a *sliceWriter) or a destination that
// can fail, standing in for a user-space copy that can fault. On a write
// failure the partially generated block is zeroed and an error wrapping
// ErrAddressFault is returned.
func (e *Engine) generateBytes(dst io.Writer, length int) error {
	e.ensureInitialized()
	e.drainSwiftBuffer()

	nBlocks := uint64(length/SeedBytes) + 1
	start := e.reserveCounterRange(nBlocks)

	var input counterModeInput
	input.setDomain(domainOutput)
	input.setCounterStart(start)
	input.setValue1(cycleCounter())
	input.setValue2(currentTaskID())
	input.setValue3(currentCPUIndex())
	input.fillTail()

	// Fast seed is copied out, then ratcheted under the same lock so the
	// value used for this output cannot be recovered from its post-state.
	seed1 := e.fast.snapshotAndRatchet(&zeroInputBlock)
	seed2 := e.slow.snapshot()
	input.setSeed1(seed1.bytes())
	input.setSeed2(seed2.bytes())

	// Perturb state against frequent-sampling attacks; not included in
	// this output.
	e.submitFeedbackInput()

	remaining := length
	counter := input.counterField()
	for remaining > 0 {
		block := hash(input.data[:])
		n := remaining
		if n > SeedBytes {
			n = SeedBytes
		}
		if _, err := dst.Write(block[:n]); err != nil {
			for i := range block {
				block[i] = 0
			}
			input.zero()
			return fmt.Errorf("%w: %v", ErrAddressFault, err)
		}
		for i := range block {
			block[i] = 0
		}
		counter.incr()
		remaining -= n
	}
	input.zero()

	e.submitFeedbackInput()
	return nil
}
