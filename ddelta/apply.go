// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"io"
	"os"
	"path/filepath"
)

// Destination selects where Apply delivers the reconstructed new bytes.
// Exactly one of New or Dir should be set.
//
// New selects file mode: new bytes stream straight to the writer and flush
// markers are ignored. This is only correct for a single-block patch (the
// whole patch committed before the first, only, flush) — a multi-block
// patch's later blocks address old past its original length, and nothing
// in file mode ever populates that extension.
//
// Dir selects directory mode: new bytes stream to a scratch file at
// <Dir>/ddelta.tmp, one per block. At each flush the scratch file is
// promoted to a checkpoint when the block's old-side CRC matches the flush
// marker (see checkpoint.go), and a checkpoint named by the marker's newcrc
// is written back into old itself at the block's absolute offset — old is
// opened read-write for exactly this reason. A block with neither a
// matching old-side CRC nor an earlier checkpoint is not written into old.
// When every block is written back, by the terminator the first
// new_file_size bytes of old are bit-for-bit new; bytes of old past that
// length are left as they were. The scratch file is discarded.
type Destination struct {
	New io.Writer
	Dir string
}

const tmpName = "ddelta.tmp"

// Apply reconstructs new from old and a patch stream read from patch, per
// dest. old must support seeking; directory-mode Destinations additionally
// require old to support writes.
func Apply(patch io.Reader, old io.ReadWriteSeeker, dest Destination) (err error) {
	defer errRecover(&err)

	h, herr := readHeader(patch)
	if herr != nil {
		return herr
	}

	dirMode := dest.Dir != ""
	var tmp *os.File
	var newW io.Writer
	if dirMode {
		f, oerr := openTmp(dest.Dir)
		if oerr != nil {
			return oerr
		}
		tmp = f
		newW = f
	} else {
		newW = dest.New
	}

	var bytesWritten, blockStart int64
	var oldcrc uint32

	for {
		e, eerr := readEntry(patch)
		if eerr != nil {
			return eerr
		}

		if e.isTerm() {
			if dirMode {
				tmp.Close()
				os.Remove(tmp.Name())
			} else {
				syncIfPossible(newW)
			}
			if uint64(bytesWritten) != h.newFileSize {
				return ErrPatchShort
			}
			return nil
		}

		if e.isFlush() {
			if !dirMode {
				continue
			}
			wantOldcrc, wantNewcrc := e.oldcrc(), e.newcrc()

			if serr := tmp.Sync(); serr != nil {
				return ErrNewIO
			}
			tmpPath := tmp.Name()
			if cerr := tmp.Close(); cerr != nil {
				return ErrNewIO
			}

			if perr := promoteBlock(dest.Dir, tmpPath, oldcrc, wantOldcrc, wantNewcrc); perr != nil {
				return perr
			}
			if rerr := restoreBlock(dest.Dir, old, blockStart, bytesWritten, wantNewcrc); rerr != nil {
				return rerr
			}

			f, oerr := openTmp(dest.Dir)
			if oerr != nil {
				return ErrNewIO
			}
			tmp = f
			newW = f
			blockStart = bytesWritten
			oldcrc = 0
			continue
		}

		// Normal record.
		n, m := int(e.diff), int(e.extra)

		oldBuf := make([]byte, n)
		if _, rerr := io.ReadFull(old, oldBuf); rerr != nil {
			return ErrOldIO
		}
		patchBuf := make([]byte, n)
		if _, rerr := io.ReadFull(patch, patchBuf); rerr != nil {
			return ErrPatchIO
		}
		dst := make([]byte, n)
		addWrapping(dst, oldBuf, patchBuf)
		if _, werr := newW.Write(dst); werr != nil {
			return ErrNewIO
		}
		oldcrc = updateCRC(oldcrc, oldBuf)

		extraBuf := make([]byte, m)
		if _, rerr := io.ReadFull(patch, extraBuf); rerr != nil {
			return ErrPatchIO
		}
		if _, werr := newW.Write(extraBuf); werr != nil {
			return ErrNewIO
		}

		if _, serr := old.Seek(int64(e.seek), io.SeekCurrent); serr != nil {
			return ErrOldIO
		}

		bytesWritten += int64(n) + int64(m)
	}
}

func openTmp(dir string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(dir, tmpName), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, ErrNewIO
	}
	return f, nil
}

func syncIfPossible(w io.Writer) {
	if s, ok := w.(interface{ Sync() error }); ok {
		s.Sync()
	}
}
