// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bootid

import "testing"

func fakeCache(seq ...[16]byte) *Cache {
	i := 0
	return &Cache{gen: func() ([16]byte, error) {
		v := seq[i%len(seq)]
		i++
		return v, nil
	}}
}

func TestBootIDStabilizesAfterFirstRead(t *testing.T) {
	c := fakeCache([16]byte{1}, [16]byte{2}, [16]byte{3})
	first, err := c.BootID()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := c.BootID()
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("BootID changed on repeated read: %q != %q", got, first)
		}
	}
}

func TestFreshUUIDRegeneratesEveryCall(t *testing.T) {
	c := fakeCache([16]byte{1}, [16]byte{2})
	a, err := c.FreshUUID()
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.FreshUUID()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("FreshUUID returned the same value twice in a row")
	}
}

func TestBootIDBytesMatchesBootIDString(t *testing.T) {
	c := fakeCache([16]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	s, err := c.BootID()
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.BootIDBytes()
	if err != nil {
		t.Fatal(err)
	}
	if format(b) != s {
		t.Errorf("BootIDBytes formatted as %q, want %q", format(b), s)
	}
}

func TestFormatIsCanonicalHyphenatedUUID(t *testing.T) {
	var b [16]byte
	for i := range b {
		b[i] = byte(i)
	}
	got := format(b)
	want := "00010203-0405-0607-0809-0a0b0c0d0e0f"
	if got != want {
		t.Errorf("format = %q, want %q", got, want)
	}
}

func TestNewUsesDefaultEngineGenerator(t *testing.T) {
	c := New()
	if c.gen == nil {
		t.Fatal("New() did not wire a generator function")
	}
	if _, err := c.BootID(); err != nil {
		t.Fatal(err)
	}
}
