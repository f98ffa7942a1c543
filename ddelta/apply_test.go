// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func generateTo(t *testing.T, old, newB []byte, blockSize int) []byte {
	t.Helper()
	var patch bytes.Buffer
	if err := Generate(&patch, old, newB, blockSize); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return patch.Bytes()
}

func TestApplyFileModeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		old  []byte
		new  []byte
	}{
		{"basic-substitution", []byte("hello world"), []byte("hello WORLD")},
		{"empty-old", nil, []byte("abc")},
		{"identical-1mib-zero", make([]byte, 1<<20), make([]byte, 1<<20)},
		{"random", randomBytes(11, 8192), randomBytes(12, 9000)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			patch := generateTo(t, c.old, c.new, 0)

			old := newMemRWS(c.old)
			var out bytes.Buffer
			err := Apply(bytes.NewReader(patch), old, Destination{New: &out})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if diff := cmp.Diff(c.new, out.Bytes()); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyZeroFillIdentityRecordShape(t *testing.T) {
	x := make([]byte, 1<<20)
	patch := generateTo(t, x, x, 0)
	_, entries := parsePatch(t, patch)

	var normal *entry
	for i := range entries {
		if !entries[i].isFlush() && !entries[i].isTerm() {
			normal = &entries[i]
		}
	}
	if normal == nil {
		t.Fatal("no normal record found")
	}
	if normal.diff != uint32(len(x)) || normal.extra != 0 || normal.seek != 0 {
		t.Fatalf("unexpected record shape: %+v", normal)
	}
}

func TestApplyDirectoryModeMultiBlock(t *testing.T) {
	old := randomBytes(13, 3<<20)
	newB := make([]byte, len(old))
	copy(newB, old)
	// Perturb the back third so the last block actually differs.
	for i := 2 << 20; i < len(newB); i++ {
		newB[i] ^= 0xff
	}

	patch := generateTo(t, old, newB, 1<<20)

	dir := t.TempDir()
	oldRWS := newMemRWS(old)
	err := Apply(bytes.NewReader(patch), oldRWS, Destination{Dir: dir})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Directory mode reconstructs new in place, inside old itself.
	if diff := cmp.Diff(newB, oldRWS.buf[:len(newB)]); diff != "" {
		t.Fatalf("old-in-place output mismatch (-want +got):\n%s", diff)
	}

	// The scratch file must not survive a clean run.
	if _, err := os.Stat(filepath.Join(dir, tmpName)); !os.IsNotExist(err) {
		t.Fatalf("scratch temp file still present: %v", err)
	}
}

func TestApplyPatchShortOnTruncatedNewSize(t *testing.T) {
	old := []byte("hello world")
	newB := []byte("hello WORLD")
	patch := generateTo(t, old, newB, 0)

	// Corrupt the header's new_file_size upward so the terminator check fails.
	patch[8+7]++

	old2 := newMemRWS(old)
	var out bytes.Buffer
	err := Apply(bytes.NewReader(patch), old2, Destination{New: &out})
	if err != ErrPatchShort {
		t.Fatalf("got %v, want ErrPatchShort", err)
	}
}
