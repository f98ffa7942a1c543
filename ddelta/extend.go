// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

// match is a committed region of overlap between old and new, expressed as
// forward and backward extensions from a tentative seed (scan, pos, len)
// bracketed by the previously committed region ending at (lastscan, lastpos).
type match struct {
	lenf int // forward extension length, growing from lastscan
	lenb int // backward extension length, growing backward from scan
}

// extendMatch implements the coverage-maximizing forward/backward extension
// described in the searcher's seed-to-commit step, including overlap
// resolution between the two extensions. scan/pos/lastscan/lastpos are
// offsets into new/old respectively; oldsize bounds old. Backward extension
// runs only while scan is below scansize (the current block's boundary, not
// necessarily the end of new); at the boundary lenb is 0.
func extendMatch(old, new []byte, oldsize, scansize, scan, pos, lastscan, lastpos int) (match, error) {
	var s, Sf, lenf int
	for i := 0; lastscan+i < scan && lastpos+i < oldsize; {
		if old[lastpos+i] == new[lastscan+i] {
			s++
		}
		i++
		if s*2-i > Sf*2-lenf {
			Sf = s
			lenf = i
		}
	}

	lenb := 0
	if scan < scansize {
		var s, Sb int
		for i := 1; scan >= lastscan+i && pos >= i; i++ {
			if old[pos-i] == new[scan-i] {
				s++
			}
			if s*2-i > Sb*2-lenb {
				Sb = s
				lenb = i
			}
		}
	}

	if lastscan+lenf > scan-lenb {
		overlap := (lastscan + lenf) - (scan - lenb)
		s := 0
		Ss := 0
		lens := 0
		for i := 0; i < overlap; i++ {
			if new[lastscan+lenf-overlap+i] == old[lastpos+lenf-overlap+i] {
				s++
			}
			if new[scan-lenb+i] == old[pos-lenb+i] {
				s--
			}
			if s > Ss {
				Ss = s
				lens = i + 1
			}
		}
		lenf += lens - overlap
		lenb -= lens
	}

	if lenf < 0 || (scan-lenb)-(lastscan+lenf) < 0 {
		return match{}, ErrAlgo
	}
	return match{lenf: lenf, lenb: lenb}, nil
}
