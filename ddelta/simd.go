// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"encoding/binary"

	"github.com/klauspost/cpuid"
)

// wordBytes is the chunk width used by addWrapping. Wider chunks amortize
// the per-byte bookkeeping of the carry-killing trick below across more
// lanes per iteration; machines with at least SSE2 (effectively all amd64
// targets) waste nothing doing this 8 bytes at a time since the uint64
// arithmetic compiles to a handful of ordinary integer instructions.
var wordBytes = 8

func init() {
	// On CPUs without SSE2 the byte-at-a-time fallback path is no slower
	// than fighting the alignment, so narrow the batch down to avoid the
	// binary.LittleEndian word loads and stores entirely.
	if !cpuid.CPU.Supports(cpuid.SSE2) {
		wordBytes = 1
	}
}

// addWrapping computes dst[i] = old[i] + patch[i] (mod 256) for i in
// [0, n), where n = len(old) = len(patch) = len(dst). It may alias dst with
// old. This is the applier's hot path: reading the diff bytes out of old
// and the patch stream and adding them pairwise with wraparound, the same
// operation the reference C implementation performs with 16-byte vector
// types. Go has no portable vector-add primitive, so wide lanes are
// emulated with the classic SWAR "add without carry propagation" trick:
// splitting each lane's low 7 bits from its sign bit kills the carry that
// would otherwise bleed into the next byte.
func addWrapping(dst, old, patch []byte) {
	n := len(old)
	i := 0
	if wordBytes >= 8 {
		for ; i+8 <= n; i += 8 {
			a := binary.LittleEndian.Uint64(old[i : i+8])
			b := binary.LittleEndian.Uint64(patch[i : i+8])
			binary.LittleEndian.PutUint64(dst[i:i+8], addWordWrapping(a, b))
		}
	}
	for ; i < n; i++ {
		dst[i] = old[i] + patch[i]
	}
}

// addWordWrapping adds two words lane-by-lane (8 bits per lane) without
// letting a carry from one lane touch its neighbor.
func addWordWrapping(a, b uint64) uint64 {
	const loMask = 0x7f7f7f7f7f7f7f7f
	const hiMask = 0x8080808080808080
	lo := (a & loMask) + (b & loMask)
	return lo ^ ((a ^ b) & hiMask)
}
