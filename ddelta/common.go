// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ddelta implements a binary delta codec in the bsdiff/bspatch
// family. The generator diffs an old byte sequence against a new one and
// emits a raw instruction stream (no outer compression); the applier drives
// that stream against the old bytes to reconstruct the new ones.
//
// Unlike classic bsdiff, the generator partitions new into sequential
// blocks and emits a flush marker after each one, carrying CRC-32 checksums
// of both sides of the block. This lets the applier checkpoint a block's
// output keyed by its checksum and resume from a prior run's checkpoint
// when the old bytes underneath it have not changed.
package ddelta

import (
	"hash/crc32"
	"math"
	"runtime"
)

// Magic is the fixed 8-byte tag at the start of every patch.
const Magic = "DDELTA40"

// FlushSentinel is the reserved seek value that marks a flush record. The
// upstream format never documented its exact value in the sources we could
// recover, so this picks the most negative int32 — a value a real match's
// seek displacement will not produce in practice, and the most defensible
// "out of band" choice given seek is otherwise a full signed 32-bit range.
const FlushSentinel int32 = math.MinInt32

// entrySize is the on-disk size of one entry record: diff, extra, seek, all
// 32-bit big-endian fields, with no padding. The original C struct packs
// diff/extra and oldcrc/newcrc into the same 8 bytes via a union, so an
// entry is 12 bytes, not the 20 guessed at in earlier notes on the format.
const entrySize = 12

// headerSize is the on-disk size of the patch header: 8-byte magic plus an
// 8-byte big-endian new file size.
const headerSize = 8 + 8

// stallFuzz and stallLimit tune the block scheduler's stall guard. These
// are empirically chosen by the original implementation; changing them
// changes which patches a given (old, new) pair produces.
const (
	stallFuzz  = 8
	stallLimit = 100
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "ddelta: " + string(e) }

// Error kinds, per the format's error taxonomy. Each is a distinct sentinel
// so callers can classify failures with errors.Is.
var (
	ErrPatchIO    error = Error("failed to read or write the patch stream")
	ErrOldIO      error = Error("failed to read or seek the old stream")
	ErrNewIO      error = Error("failed to write the new stream or checkpoint")
	ErrBadMagic   error = Error("patch header has the wrong magic")
	ErrPatchShort error = Error("patch terminated before producing new_file_size bytes")
	ErrAlgo       error = Error("generator invariant violated")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// updateCRC folds buf into the running CRC-32 (IEEE) checksum crc, the same
// way the reference implementation accumulates oldcrc/newcrc incrementally
// as bytes are consumed or produced.
func updateCRC(crc uint32, buf []byte) uint32 {
	return crc32.Update(crc, crc32.IEEETable, buf)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
