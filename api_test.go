// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetRandomUUIDVersionAndVariant(t *testing.T) {
	e := NewEngine()
	var seenFirstByte [256]int
	const samples = 500
	for i := 0; i < samples; i++ {
		var out [16]byte
		if err := e.GetRandomUUID(&out); err != nil {
			t.Fatal(err)
		}
		if out[6]&0xf0 != 0x40 {
			t.Fatalf("uuid[6] = %#x, want high nibble 0x4", out[6])
		}
		if out[8]&0xc0 != 0x80 {
			t.Fatalf("uuid[8] = %#x, want top two bits 0b10", out[8])
		}
		seenFirstByte[out[0]]++
	}

	// Weak distribution sanity check: the first byte shouldn't collapse
	// onto a handful of values across many samples.
	distinct := 0
	for _, n := range seenFirstByte {
		if n > 0 {
			distinct++
		}
	}
	if distinct < samples/10 {
		t.Errorf("uuid[0] took only %d distinct values across %d samples", distinct, samples)
	}
}

func TestRandomizeRangeInvertedReturnsZero(t *testing.T) {
	e := NewEngine()
	if got := e.RandomizeRange(0x1000, 0x1000, 0x100); got != 0 {
		t.Errorf("RandomizeRange with end <= start+length = %#x, want 0", got)
	}
}

func TestRandomizeRangeIsPageAlignedAndInBounds(t *testing.T) {
	e := NewEngine()
	start, end, length := uint32(0x1000), uint32(0x100000), uint32(0x1000)
	ps := uint32(unix.Getpagesize())

	for i := 0; i < 20; i++ {
		got := e.RandomizeRange(start, end, length)
		if got%ps != 0 {
			t.Fatalf("RandomizeRange = %#x, not a multiple of page size %#x", got, ps)
		}
		if got < start || got > end-length {
			t.Fatalf("RandomizeRange = %#x, want in [%#x, %#x]", got, start, end-length)
		}
	}
}

func TestAddInputBufferConsumesEntireBuffer(t *testing.T) {
	e := NewEngine()
	before := e.inputCount.Load()
	e.AddInputBuffer(1, []byte("a reasonably long caller-supplied buffer of bytes"))
	after := e.inputCount.Load()
	if after <= before {
		t.Fatal("AddInputBuffer did not submit any input records")
	}
}

func TestAddInputBufferEmptyIsNoop(t *testing.T) {
	e := NewEngine()
	before := e.inputCount.Load()
	e.AddInputBuffer(1, nil)
	if e.inputCount.Load() != before {
		t.Fatal("AddInputBuffer with an empty buffer must not submit any input")
	}
}

func TestAddDiskRandomnessForwardsToInputBuffer(t *testing.T) {
	e := NewEngine()
	before := e.inputCount.Load()
	e.AddDiskRandomness([]byte("sda1"))
	if e.inputCount.Load() <= before {
		t.Fatal("AddDiskRandomness did not forward any bytes to the router")
	}
}

func TestPackageLevelAPIUsesDefaultEngine(t *testing.T) {
	buf := make([]byte, 32)
	if err := GetRandomBytes(buf); err != nil {
		t.Fatal(err)
	}
	if _, err := GetRandomULong(); err != nil {
		t.Fatal(err)
	}
	if _, err := GenerateRandomUUID(); err != nil {
		t.Fatal(err)
	}
}
