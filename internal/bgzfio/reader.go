// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzfio

import (
	"io"

	"github.com/biogo/hts/bgzf"
)

// Reader is the block-compressed input stream adapter: it wraps a
// bgzf.Reader and exposes the current virtual file offset alongside
// Read and Seek.
type Reader struct {
	bg *bgzf.Reader
}

// NewReader opens a BGZF decompression cursor over r, using the given
// worker concurrency.
func NewReader(r io.Reader, concurrency int) (*Reader, error) {
	bg, err := bgzf.NewReader(r, concurrency)
	if err != nil {
		return nil, err
	}
	return &Reader{bg: bg}, nil
}

// Read implements io.Reader.
func (s *Reader) Read(p []byte) (int, error) { return s.bg.Read(p) }

// Position returns the virtual file offset immediately following the
// last byte read.
func (s *Reader) Position() bgzf.Offset { return s.bg.LastChunk().End }

// Seek repositions the cursor at the given virtual file offset.
func (s *Reader) Seek(off bgzf.Offset) error {
	return s.bg.Seek(off)
}

// Close releases the cursor's resources.
func (s *Reader) Close() error { return s.bg.Close() }
