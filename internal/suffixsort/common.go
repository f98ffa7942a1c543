// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package suffixsort implements a linear time suffix array construction
// algorithm (SA-IS, Nong/Zhang/Chan), adapted to a byte alphabet.
//
// The generator treats suffix-array construction as an external capability:
// any algorithm that produces a lexicographically sorted array of suffix
// offsets over its input is interchangeable here.
package suffixsort

// ComputeSA computes the suffix array of T and places the result in SA.
// Both T and SA must be the same length.
func ComputeSA(T []byte, SA []int) {
	if len(SA) != len(T) {
		panic("suffixsort: mismatching sizes")
	}
	if len(T) == 0 {
		return
	}
	computeSA_byte(T, SA, 0, len(T), 256)
}

// computeSA_byte adapts the integer-alphabet SA-IS implementation to a byte
// alphabet by widening the input once into a scratch []int buffer.
func computeSA_byte(T []byte, SA []int, fs, n, k int) {
	widened := make([]int, n)
	for i, c := range T {
		widened[i] = int(c)
	}
	computeSA_int(widened, SA, fs, n, k)
}
