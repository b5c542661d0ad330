// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import "encoding/binary"

// SeedBytes is the width of a seed: one SHA-512 digest.
const SeedBytes = 64

// InputBytes is the width of a single SHA-512 input block, used both for
// the per-CPU staging buffers and as the unit the raw compression function
// consumes.
const InputBytes = 128

// sha512 round constants, FIPS 180-4 section 4.2.3.
var sha512K = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f,
	0xe9b5dba58189dbbc, 0x3956c25bf348b538, 0x59f111f1b605d019,
	0x923f82a4af194f9b, 0xab1c5ed5da6d8118, 0xd807aa98a3030242,
	0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235,
	0xc19bf174cf692694, 0xe49b69c19ef14ad2, 0xefbe4786384f25e3,
	0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65, 0x2de92c6f592b0275,
	0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f,
	0xbf597fc7beef0ee4, 0xc6e00bf33da88fc2, 0xd5a79147930aa725,
	0x06ca6351e003826f, 0x142929670a0e6e70, 0x27b70a8546d22ffc,
	0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6,
	0x92722c851482353b, 0xa2bfe8a14cf10364, 0xa81a664bbc423001,
	0xc24b8b70d0f89791, 0xc76c51a30654be30, 0xd192e819d6ef5218,
	0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99,
	0x34b0bcb5e19b48a8, 0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb,
	0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3, 0x748f82ee5defb2fc,
	0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915,
	0xc67178f2e372532b, 0xca273eceea26619c, 0xd186b8c721c0c207,
	0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178, 0x06f067aa72176fba,
	0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc,
	0x431d67c49c100d4c, 0x4cc5d4becb3e42b6, 0x597f299cfc657e2a,
	0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

// sha512IV is the initial hash value, FIPS 180-4 section 5.3.5.
var sha512IV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b,
	0xa54ff53a5f1d36f1, 0x510e527fade682d1, 0x9b05688c2b3e6c1f,
	0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

func ror64(x uint64, n uint) uint64 { return (x >> n) | (x << (64 - n)) }

func ch(x, y, z uint64) uint64  { return z ^ (x & (y ^ z)) }
func maj(x, y, z uint64) uint64 { return (x & y) | (z & (x | y)) }

func bigE0(x uint64) uint64 { return ror64(x, 28) ^ ror64(x, 34) ^ ror64(x, 39) }
func bigE1(x uint64) uint64 { return ror64(x, 14) ^ ror64(x, 18) ^ ror64(x, 41) }
func smallS0(x uint64) uint64 { return ror64(x, 1) ^ ror64(x, 8) ^ (x >> 7) }
func smallS1(x uint64) uint64 { return ror64(x, 19) ^ ror64(x, 61) ^ (x >> 6) }

// compress runs the raw SHA-512 compression function over a single
// 128-byte block, updating state in place. It performs no length padding:
// the caller is responsible for supplying an already-prepared block. This
// is the primitive used to fold fresh input into a seed without going
// through the full, padded hash.
//
// state is eight native-endian words that represent the same value as the
// canonical big-endian digest bytes; Seed.bytes and seedFromBytes are the
// only places that convert between the two views, and both must agree.
func compress(state *[8]uint64, block *[InputBytes]byte) {
	var w [80]uint64
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint64(block[i*8:])
	}
	for i := 16; i < 80; i++ {
		w[i] = smallS1(w[i-2]) + w[i-7] + smallS0(w[i-15]) + w[i-16]
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for i := 0; i < 80; i++ {
		t1 := h + bigE1(e) + ch(e, f, g) + sha512K[i] + w[i]
		t2 := bigE0(a) + maj(a, b, c)
		h, g, f = g, f, e
		e = d + t1
		d, c, b = c, b, a
		a = t1 + t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h

	// Handling of secret material: zero the working variables before
	// returning.
	a, b, c, d, e, f, g, h = 0, 0, 0, 0, 0, 0, 0, 0
	for i := range w {
		w[i] = 0
	}
}

// hash computes a full, padded SHA-512 digest of message.
func hash(message []byte) [SeedBytes]byte {
	state := sha512IV
	bitLen := uint64(len(message)) * 8

	var block [InputBytes]byte
	rest := message
	for len(rest) >= InputBytes {
		copy(block[:], rest[:InputBytes])
		compress(&state, &block)
		rest = rest[InputBytes:]
	}

	// Final padded block(s): 0x80, zeros, then the 128-bit bit length.
	n := copy(block[:], rest)
	block[n] = 0x80
	for i := n + 1; i < InputBytes; i++ {
		block[i] = 0
	}
	if n >= InputBytes-16 {
		compress(&state, &block)
		for i := range block {
			block[i] = 0
		}
	}
	binary.BigEndian.PutUint64(block[InputBytes-8:], bitLen)
	compress(&state, &block)

	var digest [SeedBytes]byte
	for i, s := range state {
		binary.BigEndian.PutUint64(digest[i*8:], s)
	}

	// Zero the working state; it is no longer needed once the digest bytes
	// have been extracted.
	for i := range state {
		state[i] = 0
	}
	for i := range block {
		block[i] = 0
	}
	return digest
}
