// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command ddeltagen generates a ddelta patch from an old file and a new
// file.
//
// Usage:
//
//	ddeltagen old new patch [blocksize]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/open-vela/external-ddelta/ddelta"
)

func main() {
	if len(os.Args) < 4 || len(os.Args) > 5 {
		fmt.Fprintln(os.Stderr, "usage: ddeltagen old new patch [blocksize]")
		os.Exit(2)
	}

	var blockSize int
	if len(os.Args) == 5 {
		n, err := strconv.Atoi(os.Args[4])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ddeltagen: bad blocksize: %v\n", err)
			os.Exit(2)
		}
		blockSize = n
	}

	if err := run(os.Args[1], os.Args[2], os.Args[3], blockSize); err != nil {
		fmt.Fprintf(os.Stderr, "ddeltagen: %v\n", err)
		os.Exit(1)
	}
}

func run(oldPath, newPath, patchPath string, blockSize int) error {
	old, err := os.ReadFile(oldPath)
	if err != nil {
		return err
	}
	newB, err := os.ReadFile(newPath)
	if err != nil {
		return err
	}

	f, err := os.Create(patchPath)
	if err != nil {
		return err
	}
	if err := ddelta.Generate(f, old, newB, blockSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
