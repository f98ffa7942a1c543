// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"hash/crc32"
	"io"

	"github.com/dsnet/golib/hashutil"
	"github.com/open-vela/external-ddelta/internal/suffixsort"
)

// DefaultBlockSize is used by Generate when blockSize <= 0.
const DefaultBlockSize = 1 << 20

// Generate writes a patch transforming old into new to w, flushing a
// checkpoint marker to the stream after every blockSize bytes of new have
// been covered. Both old and new must be held fully in memory; this is the
// generator's one sanctioned departure from streaming, matching the
// reference implementation's own requirement.
//
// A blockSize of 0 uses DefaultBlockSize; blockSize >= len(new) produces a
// single block, degenerating to a plain one-shot bsdiff-style patch with a
// trailing flush before the terminator.
func Generate(w io.Writer, old, newB []byte, blockSize int) (err error) {
	defer errRecover(&err)

	oldsize := len(old)
	newsize := len(newB)

	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	if err := writeHeader(w, newHeader(uint64(newsize))); err != nil {
		return err
	}

	// The generator's working copy of old grows in place as blocks commit,
	// up to the point where it may need to hold the whole of new. Capacity
	// is reserved up front so growth never reallocates and invalidates a
	// suffix array mid-search.
	capacity := max(oldsize, newsize) + 1
	buf := make([]byte, oldsize, capacity)
	copy(buf, old)

	if newsize == 0 {
		if err := writeEntry(w, entry{}); err != nil {
			return err
		}
		return nil
	}

	scansize := min(blockSize, newsize)

	var scan, length, lastscan, lastpos, lastoffset int
	var pos int

	for {
		I := make([]int, len(buf))
		suffixsort.ComputeSA(buf, I)
		searcher := suffixSearcher{I: I, old: buf}

		var oldcrc, newcrc uint32

		for scan < scansize {
			oldscore := 0
			numLessThanEight := 0
			var prevLen, prevOldscore, prevPos int

			scan += length
			scsc := scan

			for ; scan < scansize; scan++ {
				prevLen, prevOldscore, prevPos = length, oldscore, pos

				pos, length = searcher.search(newB[scan:scansize])

				for ; scsc < scan+length; scsc++ {
					if scsc+lastoffset < oldsize && buf[scsc+lastoffset] == newB[scsc] {
						oldscore++
					}
				}

				if (length == oldscore && length != 0) || length > oldscore+stallFuzz {
					break
				}

				if scan+lastoffset < oldsize && buf[scan+lastoffset] == newB[scan] {
					oldscore--
				}

				if prevLen-stallFuzz <= length && length <= prevLen &&
					prevOldscore-stallFuzz <= oldscore && oldscore <= prevOldscore &&
					prevPos <= pos && pos <= prevPos+stallFuzz &&
					oldscore <= length && length <= oldscore+stallFuzz {
					numLessThanEight++
				} else {
					numLessThanEight = 0
				}
				if numLessThanEight > stallLimit {
					break
				}
			}

			if length == oldscore && scan != scansize {
				continue
			}

			m, merr := extendMatch(buf, newB, oldsize, scansize, scan, pos, lastscan, lastpos)
			if merr != nil {
				return merr
			}
			lenf, lenb := m.lenf, m.lenb

			diff := lenf
			extra := (scan - lenb) - (lastscan + lenf)
			seek := (pos - lenb) - (lastpos + lenf)

			e := entry{diff: uint32(diff), extra: uint32(extra), seek: int32(seek)}
			if int(e.diff) != diff || int(e.extra) != extra || int(e.seek) != seek || e.isFlush() {
				return ErrAlgo
			}
			if err := writeEntry(w, e); err != nil {
				return err
			}

			dbuf := make([]byte, lenf)
			for i := 0; i < lenf; i++ {
				dbuf[i] = newB[lastscan+i] - buf[lastpos+i]
			}
			if _, werr := w.Write(dbuf); werr != nil {
				return ErrPatchIO
			}
			ebuf := newB[lastscan+lenf : lastscan+lenf+extra]
			if _, werr := w.Write(ebuf); werr != nil {
				return ErrPatchIO
			}

			oldcrc = updateCRC(oldcrc, buf[lastpos:lastpos+lenf])

			// diff and extra regions are two independently produced segments
			// of this record's new-side output; combine their checksums,
			// computed over the actual new bytes (not the subtracted diff
			// payload), rather than re-streaming the concatenation.
			diffCRC := crc32.ChecksumIEEE(newB[lastscan : lastscan+lenf])
			segCRC := hashutil.CombineCRC32(crc32.IEEE, diffCRC, crc32.ChecksumIEEE(ebuf), int64(len(ebuf)))
			newcrc = hashutil.CombineCRC32(crc32.IEEE, newcrc, segCRC, int64(len(dbuf)+len(ebuf)))

			lastscan = scan - lenb
			lastpos = pos - lenb
			lastoffset = pos - scan
		}

		if err := writeEntry(w, flushEntry(oldcrc, newcrc)); err != nil {
			return err
		}

		if scan >= newsize {
			if err := writeEntry(w, entry{}); err != nil {
				return err
			}
			return nil
		}

		grown := max(oldsize, scansize)
		buf = buf[:grown]
		copy(buf[scansize-blockSize:scansize], newB[scansize-blockSize:scansize])
		oldsize = grown
		scansize = min(scansize+blockSize, newsize)
	}
}

func newHeader(newFileSize uint64) header {
	var h header
	copy(h.magic[:], Magic)
	h.newFileSize = newFileSize
	return h
}
