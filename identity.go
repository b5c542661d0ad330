// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"os"
	"runtime"
	"sync/atomic"
)

// currentTaskID stands in for current->pid: Go has no per-goroutine
// identifier, so the process id is used instead.
func currentTaskID() uint64 {
	return uint64(os.Getpid())
}

var cpuIndexCounter atomic.Uint64

// currentCPUIndex stands in for smp_processor_id(): Go gives no portable
// way to read the executing logical CPU, so this approximates it with a
// counter striped over GOMAXPROCS, the same substitute used by stagingBank.
func currentCPUIndex() uint64 {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return cpuIndexCounter.Add(1) % uint64(n)
}
