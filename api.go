// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package whirlwind implements a continuously-seeded, forward-secret
// cryptographic random number generator that harvests entropy from
// caller-supplied inputs and interrupt-time samples. It keeps a dual-seed
// entropy pool (a fast seed published on every fold and a slow seed
// published every 50 folds), per-CPU input staging, and a counter-mode
// SHA-512 output generator, the way the kernel driver it's modeled on does.
//
// The design does not estimate or account entropy, offer a blocking read
// mode, persist seed state across restarts, or let a caller inject counted
// entropy.
package whirlwind

import (
	"encoding/binary"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Engine owns every process-wide singleton the RNG needs: the two seed
// pools, their per-CPU staging banks, the SwiftBuffer, the input and output
// counters, and the one-time bootstrap flag. Rather than free-standing
// package statics, every public entry point is a method on *Engine, and the
// device/sysctl glue locates a single shared instance instead of each
// reaching into its own statics.
type Engine struct {
	fast *seedPool
	slow *seedPool

	fastStaging *stagingBank
	slowStaging *stagingBank

	swift *swiftBuffer

	inputCount    atomic.Uint64
	outputCounter atomic.Uint64

	initOnce sync.Once
}

// NewEngine returns a fresh, independently-seeded engine.
func NewEngine() *Engine {
	return &Engine{
		fast:        newFastSeedPool(),
		slow:        newSlowSeedPool(),
		fastStaging: newStagingBank(),
		slowStaging: newStagingBank(),
		swift:       &swiftBuffer{},
	}
}

// defaultEngine is the process-wide instance the package-level functions
// and Device use, standing in for the driver's module-load-time lookup.
var defaultEngine = NewEngine()

// sliceWriter adapts a fixed []byte into an io.Writer that fails once its
// capacity is exhausted, so GenerateBytes can treat a plain in-process
// buffer the same way it treats a destination that might fault.
type sliceWriter struct {
	buf []byte
	pos int
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// AddInput adds a single source-contributed sample to the engine. source_id
// should ideally be a compile-time unique value per call site.
func (e *Engine) AddInput(sourceID, value1, value2 uint32) {
	e.drainSwiftBuffer()
	e.routeInput(inputRecord{
		sourceID: sourceID,
		cycles:   uint32(cycleCounter()),
		value1:   value1,
		value2:   value2,
	})
}

// readWord reads up to 4 bytes little-endian from buf starting at i,
// returning the decoded word and the number of bytes consumed (0 once i
// reaches len(buf)).
func readWord(buf []byte, i int) (uint32, int) {
	if i >= len(buf) {
		return 0, 0
	}
	var b [4]byte
	n := copy(b[:], buf[i:])
	return binary.LittleEndian.Uint32(b[:]), n
}

// addInputBufferLocked is the shared implementation behind AddInputBuffer
// and the SwiftBuffer drain path.
func (e *Engine) addInputBufferLocked(sourceID uint32, buf []byte) {
	i := 0
	for i < len(buf) {
		var rec inputRecord
		rec.sourceID = sourceID
		rec.cycles = uint32(cycleCounter())
		v1, n1 := readWord(buf, i)
		i += n1
		v2, n2 := readWord(buf, i)
		i += n2
		rec.value1 = v1
		rec.value2 = v2
		e.routeInput(rec)
	}
}

// AddInputBuffer adds an arbitrary byte buffer as input, packing it 8 bytes
// at a time into value1/value2 pairs and refreshing the cycle counter each
// iteration.
func (e *Engine) AddInputBuffer(sourceID uint32, buf []byte) {
	if len(buf) == 0 {
		return
	}
	e.addInputBufferLocked(sourceID, buf)
}

// sourceIDDiskRandomness tags bytes contributed by AddDiskRandomness.
const sourceIDDiskRandomness = 0xffff0004

// AddDiskRandomness forwards a disk device's identifying bytes to the input
// router, the way the original driver's add_disk_randomness() forwards a
// struct gendisk's bytes to add_input_buffer.
func (e *Engine) AddDiskRandomness(deviceBytes []byte) {
	e.AddInputBuffer(sourceIDDiskRandomness, deviceBytes)
}

// AddInterruptSample records a compact interrupt-time sample in the
// SwiftBuffer. Go has no interrupt context and no portable way to read the
// instruction pointer of an "interrupted" frame, so the caller's own return
// address stands in for it.
func (e *Engine) AddInterruptSample(irq int, irqFlags uint64) {
	var rip uint64
	var pcs [1]uintptr
	if runtime.Callers(2, pcs[:]) > 0 {
		rip = uint64(pcs[0])
	}
	e.swift.addInterruptSample(irq, irqFlags, rip)
}

// GetRandomBytes fills buf with secure random bytes generated in-process;
// this path can never address-fault.
func (e *Engine) GetRandomBytes(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return e.generateBytes(&sliceWriter{buf: buf}, len(buf))
}

// GetRandomULong returns a single secure random 64-bit value.
func (e *Engine) GetRandomULong() (uint64, error) {
	var b [8]byte
	if err := e.GetRandomBytes(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// GetRandomUUID fills out with a random version-4, DCE-variant UUID.
func (e *Engine) GetRandomUUID(out *[16]byte) error {
	if err := e.GetRandomBytes(out[:]); err != nil {
		return err
	}
	out[6] = (out[6] & 0x0f) | 0x40
	out[8] = (out[8] & 0x3f) | 0x80
	return nil
}

// RandomizeRange returns a page-aligned offset in [start, end-length], or 0
// if the range can't hold a region of the requested length. If no page
// boundary lies in [start, end-length], it returns start, which is then not
// page-aligned.
func (e *Engine) RandomizeRange(start, end, length uint32) uint32 {
	if end <= start+length {
		return 0
	}
	span := end - length - start
	var b [4]byte
	_ = e.GetRandomBytes(b[:])
	v := binary.LittleEndian.Uint32(b[:])
	offset := start + v%span

	// The original driver's PAGE_ALIGN macro always rounds up; we do the
	// same, then clamp back into [start, end-length] since rounding up
	// can otherwise overshoot end-length when start isn't itself
	// page-aligned.
	max := end - length
	aligned := pageAlignUp(offset)
	if aligned > max {
		aligned = pageAlignDown(max)
	}
	if aligned < start {
		aligned = start
	}
	return aligned
}

func pageAlignUp(v uint32) uint32 {
	ps := uint32(unix.Getpagesize())
	return (v + ps - 1) / ps * ps
}

func pageAlignDown(v uint32) uint32 {
	ps := uint32(unix.Getpagesize())
	return v - (v % ps)
}

// GetRandomBytes, GetRandomULong, GenerateRandomUUID, RandomizeRange,
// AddInput, AddInputBuffer, and AddDiskRandomness mirror the kernel-visible
// functions the original driver exports to the rest of the kernel; they
// forward to the process-wide default engine.

func GetRandomBytes(buf []byte) error { return defaultEngine.GetRandomBytes(buf) }

func GetRandomULong() (uint64, error) { return defaultEngine.GetRandomULong() }

func GenerateRandomUUID() ([16]byte, error) {
	var out [16]byte
	err := defaultEngine.GetRandomUUID(&out)
	return out, err
}

func RandomizeRange(start, end, length uint32) uint32 {
	return defaultEngine.RandomizeRange(start, end, length)
}

func AddInput(sourceID, value1, value2 uint32) { defaultEngine.AddInput(sourceID, value1, value2) }

func AddInputBuffer(sourceID uint32, buf []byte) { defaultEngine.AddInputBuffer(sourceID, buf) }

func AddDiskRandomness(deviceBytes []byte) { defaultEngine.AddDiskRandomness(deviceBytes) }

func AddInterruptSample(irq int, irqFlags uint64) { defaultEngine.AddInterruptSample(irq, irqFlags) }
