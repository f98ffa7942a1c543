// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import "bytes"

// suffixSearcher performs ordered binary search over a suffix array I built
// on old, finding the longest common prefix of a query against old's
// suffixes. It holds no state of its own beyond the slices it is given, and
// never mutates them.
type suffixSearcher struct {
	I   []int
	old []byte
}

// search returns (pos, length): the starting offset in old of the suffix
// with the longest common prefix with q, and that prefix's length. On a
// tie, the suffix at the higher end of the search range wins.
func (s suffixSearcher) search(q []byte) (pos, length int) {
	if len(s.I) == 0 {
		return 0, 0
	}
	return s.searchRange(0, len(s.I)-1, q)
}

func (s suffixSearcher) searchRange(st, en int, q []byte) (pos, length int) {
	if en-st < 2 {
		xlen := matchLen(s.old[s.I[st]:], q)
		ylen := matchLen(s.old[s.I[en]:], q)
		if xlen > ylen {
			return s.I[st], xlen
		}
		return s.I[en], ylen
	}

	x := st + (en-st)/2
	cmpLen := min(len(s.old)-s.I[x], len(q))
	if bytes.Compare(s.old[s.I[x]:s.I[x]+cmpLen], q[:cmpLen]) <= 0 {
		return s.searchRange(x, en, q)
	}
	return s.searchRange(st, x, q)
}

// matchLen returns the length of the common prefix of a and b.
func matchLen(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
