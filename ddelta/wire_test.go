// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"bytes"
	"math"
	"testing"
)

func TestFoldSeekRoundTrip(t *testing.T) {
	vectors := []int32{
		0, 1, -1, 2, -2, 100, -100,
		math.MaxInt32,
		math.MinInt32 + 1, // one above the reserved sentinel
	}
	for _, v := range vectors {
		u := foldSeek(v)
		got := unfoldSeek(u)
		if got != v {
			t.Errorf("foldSeek/unfoldSeek(%d): got %d", v, got)
		}
	}
}

func TestFoldSeekSentinelReserved(t *testing.T) {
	// The sentinel's own fold must round-trip too (it's a valid bit pattern,
	// just one the generator refuses to emit for a normal record).
	u := foldSeek(FlushSentinel)
	if unfoldSeek(u) != FlushSentinel {
		t.Fatalf("sentinel fold/unfold mismatch")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := header{newFileSize: 123456789}
	copy(h.magic[:], Magic)

	var buf bytes.Buffer
	if err := writeHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != headerSize {
		t.Fatalf("header size: got %d, want %d", buf.Len(), headerSize)
	}
	got, err := readHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("header mismatch: got %+v, want %+v", got, h)
	}
}

func TestReadHeaderBadMagic(t *testing.T) {
	var buf bytes.Buffer
	var h header
	copy(h.magic[:], "XXXXXXXX")
	writeHeader(&buf, h)
	if _, err := readHeader(&buf); err != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestReadHeaderShort(t *testing.T) {
	buf := bytes.NewReader([]byte("short"))
	if _, err := readHeader(buf); err != ErrPatchIO {
		t.Fatalf("got %v, want ErrPatchIO", err)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	vectors := []entry{
		{diff: 10, extra: 20, seek: -5},
		{diff: 0, extra: 0, seek: 0},
		flushEntry(0xdeadbeef, 0x12345678),
	}
	for i, e := range vectors {
		var buf bytes.Buffer
		if err := writeEntry(&buf, e); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != entrySize {
			t.Fatalf("test %d, entry size: got %d, want %d", i, buf.Len(), entrySize)
		}
		got, err := readEntry(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != e {
			t.Errorf("test %d, entry mismatch: got %+v, want %+v", i, got, e)
		}
	}
}

func TestEntryKinds(t *testing.T) {
	if !flushEntry(1, 2).isFlush() {
		t.Error("flushEntry not recognized as flush")
	}
	term := entry{}
	if !term.isTerm() {
		t.Error("zero entry not recognized as terminator")
	}
	normal := entry{diff: 1, extra: 0, seek: 0}
	if normal.isTerm() {
		t.Error("non-zero diff misclassified as terminator")
	}
}
