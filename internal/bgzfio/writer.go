// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzfio

import (
	"io"

	"github.com/biogo/hts/bgzf"
)

// maxUncompressed is the largest number of uncompressed bytes this
// package will buffer into a single BGZF block before flushing. It is
// kept below the 64KB ceiling a virtual offset's 16-bit within-block
// field can address, matching the convention used by bgzf writers
// generally (sambamba and biogo both default to 0xff00).
const maxUncompressed = 0xff00

// countingWriter tracks the number of bytes written to the underlying
// sink, giving Writer an exact compressed-block start offset without
// needing to inspect the BGZF compressor's internal state.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Writer is the block-compressed output stream adapter: it wraps a
// bgzf.Writer, exposes the current virtual file offset, and lets a
// caller seal the current block or bypass compression entirely for a
// raw, already-block-shaped byte sequence such as the trailer.
//
// Writer decides for itself when to close a BGZF block (whenever the
// buffered uncompressed data would exceed maxUncompressed), so Position
// is always exact; it never depends on undocumented flush behaviour in
// the wrapped bgzf.Writer.
type Writer struct {
	sink         *countingWriter
	raw          io.Writer
	bg           *bgzf.Writer
	blockStart   int64
	uncompressed uint32
}

// NewWriter returns a Writer that compresses into BGZF blocks written
// to w, using the given worker concurrency.
func NewWriter(w io.Writer, concurrency int) *Writer {
	cw := &countingWriter{w: w}
	return &Writer{
		sink: cw,
		raw:  w,
		bg:   bgzf.NewWriter(cw, concurrency),
	}
}

// Write appends p to the payload, flushing block boundaries as needed.
func (s *Writer) Write(p []byte) (int, error) {
	var written int
	for len(p) > 0 {
		room := maxUncompressed - int(s.uncompressed)
		if room <= 0 {
			if err := s.Flush(); err != nil {
				return written, err
			}
			room = maxUncompressed
		}
		chunk := p
		if len(chunk) > room {
			chunk = chunk[:room]
		}
		n, err := s.bg.Write(chunk)
		written += n
		s.uncompressed += uint32(n)
		p = p[n:]
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Position returns the virtual file offset of the next byte Write will
// accept.
func (s *Writer) Position() bgzf.Offset {
	return bgzf.Offset{File: s.blockStart, Block: uint16(s.uncompressed)}
}

// Flush seals the current BGZF block, if it holds any data, and starts
// a fresh one.
func (s *Writer) Flush() error {
	if s.uncompressed == 0 {
		return nil
	}
	if err := s.bg.Flush(); err != nil {
		return err
	}
	if err := s.bg.Wait(); err != nil {
		return err
	}
	s.blockStart = s.sink.n
	s.uncompressed = 0
	return nil
}

// WriteRaw flushes any pending block and then writes b directly to the
// underlying sink, bypassing BGZF compression. It is used for the
// trailer, which is already a valid, fixed, empty BGZF block.
func (s *Writer) WriteRaw(b []byte) error {
	if err := s.Flush(); err != nil {
		return err
	}
	_, err := s.raw.Write(b)
	return err
}

// Close flushes any pending block and then closes the underlying sink if
// it implements io.Closer. It never invokes the wrapped bgzf.Writer's own
// Close, so no BGZF terminator block is appended; a caller that needs a
// final block of its own (such as bcis, which appends its own trailer)
// writes it with WriteRaw before Close.
func (s *Writer) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if c, ok := s.raw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
