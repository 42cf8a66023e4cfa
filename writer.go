// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"io"

	"github.com/biogo/hts/bgzf"

	"github.com/kortschak/bcis/internal/bgzfio"
)

// Serializer writes rec to w and returns the collating Interval it
// occupies. It must not seek.
type Serializer[R any] func(w io.Writer, rec R) (Interval, error)

// concurrency is the BGZF worker count used by both Writer and Reader.
// The format is single-threaded per stream (§5): one worker keeps block
// emission order deterministic without adding parallel-decode
// complexity this package has no use for.
const concurrency = 1

// fileVersion is the version tag written to every file's header.
const fileVersion = "1"

// Writer drives block-boundary detection and index accumulation while
// writing a coordinate-sorted sequence of records of type R.
type Writer[R any] struct {
	dict  *Dictionary
	class string
	ser   Serializer[R]

	stream *bgzfio.Writer
	closed bool

	entries []entry

	lastInterval *Interval
	firstMember  bool

	blockVpos   uint64
	blockContig uint32
	blockStart  uint32
	blockEnd    uint32
}

// NewWriter creates a Writer that appends BGZF-compressed, self-indexed
// records to w. class identifies the record type stored in the file; a
// Reader opened against the same file must be given the same class or
// will fail with ClassMismatch. dict is written into the file header
// verbatim. Write does not check the Interval returned by ser against
// dict; building a valid Interval is the Serializer's job.
func NewWriter[R any](w io.Writer, dict *Dictionary, class string, ser Serializer[R]) (*Writer[R], error) {
	wr := &Writer[R]{
		dict:        dict,
		class:       class,
		ser:         ser,
		stream:      bgzfio.NewWriter(w, concurrency),
		firstMember: true,
	}
	if err := wr.writeHeader(); err != nil {
		return nil, newError(WriteFailed, "NewWriter", err)
	}
	return wr, nil
}

func (w *Writer[R]) writeHeader() error {
	if err := writeUTF(w.stream, w.class); err != nil {
		return err
	}
	if err := writeUTF(w.stream, fileVersion); err != nil {
		return err
	}
	if err := writeUint32(w.stream, uint32(w.dict.Len())); err != nil {
		return err
	}
	for i := 0; i < w.dict.Len(); i++ {
		c, _ := w.dict.Contig(uint32(i))
		if err := writeUint32(w.stream, c.Length); err != nil {
			return err
		}
		if err := writeUTF(w.stream, c.Name); err != nil {
			return err
		}
	}
	return w.stream.Flush()
}

// Write serializes rec, extending or flushing the pending index entry
// as block and contig boundaries require. Records must be written in
// strictly non-decreasing collating order; violations fail with
// NotSorted.
func (w *Writer[R]) Write(rec R) error {
	if w.closed {
		return newError(WriteFailed, "Write", io.ErrClosedPipe)
	}

	vBefore := w.stream.Position()
	iv, err := w.ser(w.stream, rec)
	if err != nil {
		return newError(WriteFailed, "Write", err)
	}

	if w.lastInterval != nil && iv.Compare(*w.lastInterval) < 0 {
		return newError(NotSorted, "Write", nil)
	}

	if w.firstMember || w.lastInterval == nil {
		w.startBlock(vBefore, iv)
		w.firstMember = false
		return nil
	}

	if iv.Contig != w.blockContig {
		w.flushPending()
		w.startBlock(vBefore, iv)
	} else {
		if iv.End > w.blockEnd {
			w.blockEnd = iv.End
		}
		w.lastInterval = &iv
	}

	if !bgzfio.SameBlock(vBefore, w.stream.Position()) {
		w.flushPending()
		w.firstMember = true
	}
	return nil
}

// startBlock resets the pending block-tracking record to begin at V
// with the interval I.
func (w *Writer[R]) startBlock(v bgzf.Offset, iv Interval) {
	w.blockVpos = bgzfio.Pack(v)
	w.lastInterval = &iv
	w.blockContig = iv.Contig
	w.blockStart = iv.Start
	w.blockEnd = iv.End
}

// flushPending appends the current pending block-tracking record to the
// index entry list.
func (w *Writer[R]) flushPending() {
	w.entries = append(w.entries, entry{
		interval: Interval{Contig: w.blockContig, Start: w.blockStart, End: w.blockEnd},
		vpos:     w.blockVpos,
	})
}

// Close appends the pending index entry (if any), writes the index
// section, and writes the trailer carrying its offset. It does not let
// the underlying BGZF layer append its own terminator block.
func (w *Writer[R]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if !w.firstMember {
		w.flushPending()
	}

	if err := w.stream.Flush(); err != nil {
		return newError(WriteFailed, "Close", err)
	}
	indexVpos := bgzfio.Pack(w.stream.Position())

	if err := writeUint32(w.stream, uint32(len(w.entries))); err != nil {
		return newError(WriteFailed, "Close", err)
	}
	for _, e := range w.entries {
		if err := e.writeTo(w.stream); err != nil {
			return newError(WriteFailed, "Close", err)
		}
	}
	if err := w.stream.Flush(); err != nil {
		return newError(WriteFailed, "Close", err)
	}

	trailer := buildTrailer(indexVpos)
	if err := w.stream.WriteRaw(trailer[:]); err != nil {
		return newError(WriteFailed, "Close", err)
	}

	if err := w.stream.Close(); err != nil {
		return newError(WriteFailed, "Close", err)
	}
	return nil
}
