// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command ddeltapatch applies a ddelta patch to an old file, either
// producing a new file directly or, in directory mode, reconstructing new
// in place inside old with per-block checkpointing.
//
// Usage:
//
//	ddeltapatch oldfile (newfile|tmpdir) patchfile
package main

import (
	"fmt"
	"os"

	"github.com/open-vela/external-ddelta/ddelta"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: ddeltapatch oldfile (newfile|tmpdir) patchfile")
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3]); err != nil {
		fmt.Fprintf(os.Stderr, "ddeltapatch: %v\n", err)
		os.Exit(1)
	}
}

func run(oldPath, dest, patchPath string) error {
	old, err := os.OpenFile(oldPath, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer old.Close()

	patch, err := os.Open(patchPath)
	if err != nil {
		return err
	}
	defer patch.Close()

	d, statErr := os.Stat(dest)
	switch {
	case statErr == nil && d.IsDir():
		return ddelta.Apply(patch, old, ddelta.Destination{Dir: dest})
	default:
		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		if err := ddelta.Apply(patch, old, ddelta.Destination{New: out}); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
}
