// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"bytes"
	"testing"
)

func mustDict(t *testing.T, contigs ...Contig) *Dictionary {
	t.Helper()
	d, err := NewDictionary(contigs)
	if err != nil {
		t.Fatalf("NewDictionary failed: %v", err)
	}
	return d
}

func TestNewIntervalBounds(t *testing.T) {
	dict := mustDict(t, Contig{Name: "chr1", Length: 1000})

	if _, err := NewInterval(dict, 0, 1, 1000); err != nil {
		t.Errorf("full-length interval should be valid: %v", err)
	}
	for _, tc := range []struct {
		start, end uint32
	}{
		{0, 10},    // start < 1
		{10, 5},    // start > end
		{1, 1001},  // end > length
		{1001, 1001},
	} {
		if _, err := NewInterval(dict, 0, tc.start, tc.end); err == nil {
			t.Errorf("interval [%d,%d] should be OutOfBounds", tc.start, tc.end)
		} else if kind, ok := ErrorKind(err); !ok || kind != OutOfBounds {
			t.Errorf("interval [%d,%d]: want OutOfBounds, got %v", tc.start, tc.end, err)
		}
	}

	if _, err := NewInterval(dict, 7, 1, 1); err == nil {
		t.Error("unknown contig index should fail")
	} else if kind, ok := ErrorKind(err); !ok || kind != UnknownContig {
		t.Errorf("want UnknownContig, got %v", err)
	}

	if _, err := NewIntervalByName(dict, "chrX", 1, 1); err == nil {
		t.Error("unknown contig name should fail")
	} else if kind, ok := ErrorKind(err); !ok || kind != UnknownContig {
		t.Errorf("want UnknownContig, got %v", err)
	}
}

func TestIntervalCompare(t *testing.T) {
	a := Interval{Contig: 0, Start: 10, End: 20}
	b := Interval{Contig: 0, Start: 10, End: 30}
	c := Interval{Contig: 1, Start: 1, End: 2}

	if a.Compare(a) != 0 {
		t.Error("interval should compare equal to itself")
	}
	if a.Compare(b) >= 0 {
		t.Error("a should sort before b (shorter end)")
	}
	if b.Compare(a) <= 0 {
		t.Error("b should sort after a")
	}
	if a.Compare(c) >= 0 {
		t.Error("a should sort before c (earlier contig)")
	}
}

func TestIntervalPredicates(t *testing.T) {
	a := Interval{Contig: 0, Start: 100, End: 200}
	b := Interval{Contig: 0, Start: 150, End: 300}
	c := Interval{Contig: 0, Start: 201, End: 250}
	d := Interval{Contig: 1, Start: 1, End: 2}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("a and b should overlap")
	}
	if a.Overlaps(c) {
		t.Error("a and c should not overlap")
	}
	if a.Overlaps(d) {
		t.Error("intervals on different contigs never overlap")
	}
	if !a.Contains(Interval{Contig: 0, Start: 120, End: 180}) {
		t.Error("a should contain its own sub-range")
	}
	if a.Contains(b) {
		t.Error("a should not contain b")
	}
	if !a.UpstreamOf(c) {
		t.Error("a should be upstream of c")
	}
	if c.UpstreamOf(a) {
		t.Error("c should not be upstream of a")
	}
	if !a.UpstreamOf(d) {
		t.Error("a on an earlier contig is always upstream of d")
	}
}

func TestIntervalHash(t *testing.T) {
	iv := Interval{Contig: 2, Start: 3, End: 4}
	want := uint64(241 * (241*(241*2+3) + 4))
	if got := iv.Hash(); got != want {
		t.Errorf("Hash() = %d, want %d", got, want)
	}

	// Distinct intervals should (overwhelmingly likely) hash distinctly.
	other := Interval{Contig: 2, Start: 3, End: 5}
	if iv.Hash() == other.Hash() {
		t.Error("distinct intervals hashed identically")
	}
}

func TestIntervalWireRoundTrip(t *testing.T) {
	iv := Interval{Contig: 0xdeadbeef, Start: 12345, End: 67890}
	var buf bytes.Buffer
	n, err := iv.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != intervalWireSize {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, intervalWireSize)
	}
	got, err := ReadInterval(&buf)
	if err != nil {
		t.Fatalf("ReadInterval failed: %v", err)
	}
	if got != iv {
		t.Errorf("round trip = %+v, want %+v", got, iv)
	}
}
