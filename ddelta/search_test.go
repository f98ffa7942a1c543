// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"testing"

	"github.com/open-vela/external-ddelta/internal/suffixsort"
)

func newSearcher(t *testing.T, old []byte) suffixSearcher {
	t.Helper()
	I := make([]int, len(old))
	suffixsort.ComputeSA(old, I)
	return suffixSearcher{I: I, old: old}
}

func TestSearchExactFullMatch(t *testing.T) {
	old := []byte("the quick brown fox jumps over the lazy dog")
	s := newSearcher(t, old)

	pos, length := s.search([]byte("quick brown"))
	if length != len("quick brown") {
		t.Fatalf("length = %d, want %d", length, len("quick brown"))
	}
	if string(old[pos:pos+length]) != "quick brown" {
		t.Fatalf("matched %q at %d", old[pos:pos+length], pos)
	}
}

func TestSearchPrefersLongestCommonPrefix(t *testing.T) {
	old := []byte("banana")
	s := newSearcher(t, old)

	// "ana" occurs at both offset 1 and offset 3; either is a valid
	// longest match, so only the length is asserted.
	_, length := s.search([]byte("ana"))
	if length != 3 {
		t.Fatalf("length = %d, want 3", length)
	}
}

func TestSearchNoMatch(t *testing.T) {
	old := []byte("aaaaaaaaaa")
	s := newSearcher(t, old)

	_, length := s.search([]byte("zzz"))
	if length != 0 {
		t.Fatalf("length = %d, want 0", length)
	}
}

func TestSearchEmptyOld(t *testing.T) {
	s := newSearcher(t, nil)
	_, length := s.search([]byte("x"))
	if length != 0 {
		t.Fatalf("length = %d, want 0", length)
	}
}
