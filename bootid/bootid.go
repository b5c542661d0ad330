// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bootid implements the boot_id/uuid sysctl collaborator named in
// spec.md §6: a cached boot ID that stabilizes after its first read, and a
// fresh-UUID-per-read helper, both rendered as canonical hyphenated
// strings.
package bootid

import (
	"fmt"
	"sync"

	whirlwind "github.com/ace0/linux-whirlwind-rng"
)

// Cache caches a UUID behind a mutex the first time it is read, so the
// boot ID stabilizes after its first read; every other read regenerates a
// fresh UUID.
type Cache struct {
	mu  sync.Mutex
	id  [16]byte
	set bool
	gen func() ([16]byte, error)
}

// New returns a Cache backed by the process-wide default engine.
func New() *Cache {
	return &Cache{gen: whirlwind.GenerateRandomUUID}
}

// BootID returns the cached boot UUID as a canonical hyphenated string,
// generating and caching it on the first call.
func (c *Cache) BootID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		id, err := c.gen()
		if err != nil {
			return "", err
		}
		c.id = id
		c.set = true
	}
	return format(c.id), nil
}

// BootIDBytes returns the cached boot UUID's 16 raw bytes, matching the
// sysctl syscall's raw-byte rendering (as opposed to BootID's canonical
// procfs string rendering).
func (c *Cache) BootIDBytes() ([16]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		id, err := c.gen()
		if err != nil {
			return [16]byte{}, err
		}
		c.id = id
		c.set = true
	}
	return c.id, nil
}

// FreshUUID generates and returns a new UUID on every call, as a canonical
// hyphenated string.
func (c *Cache) FreshUUID() (string, error) {
	id, err := c.gen()
	if err != nil {
		return "", err
	}
	return format(id), nil
}

func format(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
