// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"golang.org/x/sys/cpu"
)

// cycleCounter stands in for the original driver's get_cycle_counter(),
// which reads a hardware cycle counter or falls back to the kernel tick
// counter (jiffies) when none is available. Plain Go has no portable way to
// read a hardware cycle counter without assembly, so this always takes the
// "no cycle counter" branch and reports the wall-clock time in nanoseconds
// instead.
func cycleCounter() uint64 {
	return uint64(time.Now().UnixNano())
}

// hasHardwareRandom reports whether the running CPU advertises a hardware
// random-number instruction (RDRAND on x86_64), mirroring the
// arch_get_random_long() capability check in the original driver.
func hasHardwareRandom() bool {
	return cpu.X86.HasRDRAND
}

// hwRandomWord fills the counter-mode input's tail with hardware random
// data when available, else leaves it at zero (spec.md's documented
// fallback). Go cannot execute the RDRAND instruction directly without
// assembly, so when the CPU advertises support this substitutes a
// crypto/rand read for the missing intrinsic; this substitution is
// documented here and in DESIGN.md rather than silently diverging from the
// original's behavior.
func hwRandomWord() (uint64, bool) {
	if !hasHardwareRandom() {
		return 0, false
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[:]), true
}
