// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"
)

func TestHashKnownAnswer(t *testing.T) {
	cases := []struct {
		name    string
		message []byte
		digest  string
	}{
		{
			name:    "empty",
			message: []byte{},
			digest:  "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		},
		{
			name:    "abc",
			message: []byte("abc"),
			digest:  "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
		{
			name:    "448-bit",
			message: []byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"),
			digest:  "204a8fc6dda82f0a0ced7beb8e08a41657c16ef468b228a8279be331a703c33596fd15c13b1b07f9aa1d3bea57789ca031ad85c7a71dd70354ec631238ca3445",
		},
		{
			name:    "million-a",
			message: []byte(strings.Repeat("a", 1000000)),
			digest:  "e718483d0ce769644e2e42c7bc15b4638e1f98b13b2044285632a803afa973ebde0ff244877ea60a4cb0432ce577c31beb009c5c2c49aa2e4eadb217ad8cc09b",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := hash(c.message)
			want, err := hex.DecodeString(c.digest)
			if err != nil {
				t.Fatalf("bad test vector: %v", err)
			}
			if !bytes.Equal(got[:], want) {
				t.Errorf("hash(%s) = %x, want %s", c.name, got, c.digest)
			}
		})
	}
}

// TestCompressAgreesWithHash verifies that the raw compression primitive,
// run once from the SHA-512 IV over a single fully-padded block, produces
// the same digest as the full padded hash over the same short message —
// i.e. compress() and hash() are wired to the same message schedule and
// round function.
func TestCompressAgreesWithHash(t *testing.T) {
	message := []byte("abc")

	var block [InputBytes]byte
	n := copy(block[:], message)
	block[n] = 0x80
	binary.BigEndian.PutUint64(block[InputBytes-8:], uint64(len(message))*8)

	state := sha512IV
	compress(&state, &block)

	var fromCompress [SeedBytes]byte
	for i, s := range state {
		binary.BigEndian.PutUint64(fromCompress[i*8:], s)
	}

	fromHash := hash(message)
	if fromCompress != fromHash {
		t.Errorf("compress(IV, padded block) = %x, hash(message) = %x", fromCompress, fromHash)
	}
}

func TestCompressZeroesWorkingState(t *testing.T) {
	// Not directly observable from outside the package beyond absence of
	// panics/incorrect results; this exercises compress repeatedly to
	// catch any accidental state leakage between calls.
	state := sha512IV
	var block [InputBytes]byte
	for i := 0; i < 10; i++ {
		block[0] = byte(i)
		compress(&state, &block)
	}
}
