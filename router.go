// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

// slowSeedEvery is how often an input is diverted to the slow seed instead
// of the fast one: holding back every 10th input raises the bar for an
// attacker who can predict every input and checkpoint the fast pool.
const slowSeedEvery = 10

// sourceIDSwiftBuffer tags input records that originate from draining the
// SwiftBuffer rather than from a direct caller.
const sourceIDSwiftBuffer = 0xffff0001

// routeInput discards sentinel records, otherwise selects the fast or slow
// pool (every slowSeedEvery-th input goes to the slow pool) and delegates
// to that pool's per-CPU staging bank.
func (e *Engine) routeInput(rec inputRecord) {
	if rec.isSentinel() {
		return
	}
	count := e.inputCount.Add(1)
	pool, bank := e.fast, e.fastStaging
	if count%slowSeedEvery == 0 {
		pool, bank = e.slow, e.slowStaging
	}
	bank.add(rec, pool)
}

// drainSwiftBuffer opportunistically steals whatever the SwiftBuffer has
// accumulated and feeds it through the router as an input buffer. spec.md
// §9 leaves the drain policy unspecified; this implementation drains on
// every AddInput and at the start of every GenerateBytes, which ensures
// interrupt-time samples eventually reach a seed without requiring the
// interrupt path itself to take a lock.
func (e *Engine) drainSwiftBuffer() {
	var buf [64]byte
	for {
		n := e.swift.drain(buf[:])
		if n == 0 {
			return
		}
		e.addInputBufferLocked(sourceIDSwiftBuffer, buf[:n])
	}
}
