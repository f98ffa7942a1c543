// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// checkpointPath names a block's backup file by the new-side CRC recorded
// in its flush marker.
func checkpointPath(dir string, newcrc uint32) string {
	return filepath.Join(dir, fmt.Sprintf("%08x.tmp", newcrc))
}

// promoteBlock renames the just-closed block temp file to its checkpoint
// name, but only when the block consumed exactly the old bytes the
// generator saw (oldcrc matches). A stale backup of the same name from an
// earlier, abandoned attempt is replaced.
func promoteBlock(dir, tmpPath string, oldcrc, wantOldcrc, newcrc uint32) error {
	if oldcrc != wantOldcrc {
		return nil
	}
	dst := checkpointPath(dir, newcrc)
	os.Remove(dst)
	if err := os.Rename(tmpPath, dst); err != nil {
		return ErrNewIO
	}
	return nil
}

// restoreBlock writes a checkpointed block's bytes back into old at
// [start, end), verifying them against newcrc before unlinking the
// checkpoint. It is a no-op if no checkpoint exists under that name — in
// particular this is how a freshly promoted block (see promoteBlock) gets
// written forward into old: promote renames into place, then restore
// immediately finds that same file and replays it, which doubles as a
// corruption self-check on the rename it just performed.
func restoreBlock(dir string, old io.WriteSeeker, start, end int64, newcrc uint32) error {
	path := checkpointPath(dir, newcrc)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ErrNewIO
	}
	defer f.Close()

	if _, err := old.Seek(start, io.SeekStart); err != nil {
		return ErrOldIO
	}

	var crc uint32
	var n int64
	buf := make([]byte, 32*1024)
	for {
		r, rerr := f.Read(buf)
		if r > 0 {
			crc = updateCRC(crc, buf[:r])
			if _, werr := old.Write(buf[:r]); werr != nil {
				return ErrOldIO
			}
			n += int64(r)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return ErrNewIO
		}
	}

	if n != end-start || crc != newcrc {
		return ErrNewIO
	}
	return os.Remove(path)
}
