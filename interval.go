// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Interval is a collating interval: a (contig, start, end) triple used
// as both record data and index key. Coordinates are 1-based and
// closed, so 1 <= Start <= End <= contig length.
type Interval struct {
	Contig     uint32
	Start, End uint32
}

// NewInterval constructs an Interval on the contig at index contig in
// dict, failing with OutOfBounds if the coordinates violate the
// contig's bounds.
func NewInterval(dict *Dictionary, contig, start, end uint32) (Interval, error) {
	c, ok := dict.Contig(contig)
	if !ok {
		return Interval{}, newError(UnknownContig, "NewInterval", fmt.Errorf("contig index %d not in dictionary", contig))
	}
	return newInterval(c, contig, start, end)
}

// NewIntervalByName is like NewInterval but resolves the contig by
// name, failing with UnknownContig if name is absent from dict.
func NewIntervalByName(dict *Dictionary, name string, start, end uint32) (Interval, error) {
	idx, ok := dict.IndexOf(name)
	if !ok {
		return Interval{}, newError(UnknownContig, "NewIntervalByName", fmt.Errorf("contig %q not in dictionary", name))
	}
	c, _ := dict.Contig(idx)
	return newInterval(c, idx, start, end)
}

func newInterval(c Contig, idx, start, end uint32) (Interval, error) {
	if start < 1 || start > end || end > c.Length {
		return Interval{}, newError(OutOfBounds, "NewInterval",
			fmt.Errorf("interval [%d,%d] is not within 1..%d for contig %q", start, end, c.Length, c.Name))
	}
	return Interval{Contig: idx, Start: start, End: end}, nil
}

// matched reports whether i and o share a contig.
func (i Interval) matched(o Interval) bool { return i.Contig == o.Contig }

// Compare returns a negative number, zero, or a positive number as i
// sorts before, the same as, or after o in collating order, the total
// lexicographic order on (Contig, Start, End).
func (i Interval) Compare(o Interval) int {
	switch {
	case i.Contig != o.Contig:
		if i.Contig < o.Contig {
			return -1
		}
		return 1
	case i.Start != o.Start:
		if i.Start < o.Start {
			return -1
		}
		return 1
	case i.End != o.End:
		if i.End < o.End {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Overlaps reports whether i and o are contig-matched and share at
// least one coordinate.
func (i Interval) Overlaps(o Interval) bool {
	return i.matched(o) && i.Start <= o.End && o.Start <= i.End
}

// Contains reports whether i and o are contig-matched and o's range
// lies entirely within i's.
func (i Interval) Contains(o Interval) bool {
	return i.matched(o) && o.Start >= i.Start && o.End <= i.End
}

// UpstreamOf reports whether i ends strictly before o begins: either i
// is on an earlier contig, or they share a contig and i.End < o.Start.
func (i Interval) UpstreamOf(o Interval) bool {
	if i.Contig != o.Contig {
		return i.Contig < o.Contig
	}
	return i.End < o.Start
}

// Hash returns a stable hash of i, using the polynomial
// 241*(241*(241*contig + start) + end) that is pinned for
// cross-implementation test parity.
func (i Interval) Hash() uint64 {
	h := 241*uint64(i.Contig) + uint64(i.Start)
	h = 241*h + uint64(i.End)
	return 241 * h
}

func (i Interval) String() string {
	return fmt.Sprintf("contig#%d:%d-%d", i.Contig, i.Start, i.End)
}

// intervalWireSize is the fixed size of an Interval's wire form.
const intervalWireSize = 12

// WriteTo writes i's 12-byte wire form to w.
func (i Interval) WriteTo(w io.Writer) (int64, error) {
	var buf [intervalWireSize]byte
	binary.BigEndian.PutUint32(buf[0:4], i.Contig)
	binary.BigEndian.PutUint32(buf[4:8], i.Start)
	binary.BigEndian.PutUint32(buf[8:12], i.End)
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadInterval reads a 12-byte Interval wire form from r.
func ReadInterval(r io.Reader) (Interval, error) {
	var buf [intervalWireSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Interval{}, err
	}
	return Interval{
		Contig: binary.BigEndian.Uint32(buf[0:4]),
		Start:  binary.BigEndian.Uint32(buf[4:8]),
		End:    binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}
