// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

// bootstrapLoops is the number of outer timing-loop iterations run once,
// before the engine's first output.
const bootstrapLoops = 100

// bootstrapInnerMax bounds the variable-length inner loop that exists
// solely to create a data dependency defeating dead-code elimination; its
// mathematical output is assumed to carry little entropy on its own.
const bootstrapInnerMax = 1024

const sourceIDBootstrap = 0xffff0003

// ensureInitialized runs the bootstrap exactly once per engine, blocking
// any concurrent caller until it completes, so every caller observes a
// fully-initialized engine before GenerateBytes proceeds.
func (e *Engine) ensureInitialized() {
	e.initOnce.Do(e.bootstrap)
}

// bootstrap injects initial entropy through nested timing loops. It has no
// access to genuinely unpredictable hardware events at this point; it
// submits bootstrapLoops timing records plus one accumulator record through
// the router. Whether either pool folds during bootstrap depends on how those
// records fill the staging shards; a fold is not guaranteed.
func (e *Engine) bootstrap() {
	var acc uint32
	for i := 0; i < bootstrapLoops; i++ {
		cycles := uint32(cycleCounter())
		e.routeInput(inputRecord{
			sourceID: sourceIDBootstrap,
			cycles:   cycles,
			value1:   sourceIDBootstrap + 1,
			value2:   sourceIDBootstrap + 2,
		})

		inner := cycles % bootstrapInnerMax
		for j := uint32(0); j < inner; j++ {
			acc = (cycles/(j+1) - acc*uint32(i)) + 1
		}
	}

	// Submit the accumulator so the loops aren't optimized away; it isn't
	// expected to contribute meaningful entropy on its own.
	e.routeInput(inputRecord{sourceID: sourceIDBootstrap, value1: acc})
}
