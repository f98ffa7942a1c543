// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ddelta

import (
	"io"
	"math/rand"
)

// memRWS is an in-memory io.ReadWriteSeeker, standing in for a real seekable
// file in tests. Writes past the current length grow the buffer, mirroring
// how the applier's restore step can extend old past its original size.
type memRWS struct {
	buf []byte
	pos int64
}

func newMemRWS(data []byte) *memRWS {
	b := make([]byte, len(data))
	copy(b, data)
	return &memRWS{buf: b}
}

func (m *memRWS) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memRWS) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memRWS) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	}
	if newPos < 0 {
		return 0, ErrOldIO
	}
	m.pos = newPos
	return newPos, nil
}

func randomBytes(seed int64, n int) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}
