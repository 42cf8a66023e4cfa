// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package indextree

import (
	"sort"
	"testing"
)

func TestOverlappersNoDuplicates(t *testing.T) {
	tr := New()
	entries := []Entry{
		{Contig: 0, Start: 100, End: 200, Value: 1},
		{Contig: 0, Start: 150, End: 300, Value: 2},
		{Contig: 0, Start: 500, End: 600, Value: 3},
		{Contig: 1, Start: 10, End: 50, Value: 4},
	}
	for _, e := range entries {
		if err := tr.Put(e); err != nil {
			t.Fatalf("Put(%+v) failed: %v", e, err)
		}
	}
	tr.Finalize()

	hits := tr.Overlappers(0, 160, 170)
	if len(hits) != 2 {
		t.Fatalf("Overlappers(0,160,170) = %d hits, want 2", len(hits))
	}
	seen := make(map[uint64]bool)
	for _, h := range hits {
		if seen[h.Value] {
			t.Errorf("duplicate hit with value %d", h.Value)
		}
		seen[h.Value] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("expected values {1,2}, got %v", hits)
	}

	if hits := tr.Overlappers(0, 1000, 2000); len(hits) != 0 {
		t.Errorf("Overlappers with no coverage should be empty, got %v", hits)
	}

	if hits := tr.Overlappers(2, 1, 10); hits != nil {
		t.Errorf("Overlappers on an unknown contig should be nil, got %v", hits)
	}

	if hits := tr.Overlappers(1, 1, 100); len(hits) != 1 || hits[0].Value != 4 {
		t.Errorf("Overlappers(1,1,100) = %v, want single hit with value 4", hits)
	}
}

func TestAllReturnsEveryPutEntry(t *testing.T) {
	tr := New()
	want := []Entry{
		{Contig: 0, Start: 1, End: 2, Value: 1},
		{Contig: 0, Start: 3, End: 4, Value: 2},
		{Contig: 1, Start: 5, End: 6, Value: 3},
	}
	for _, e := range want {
		if err := tr.Put(e); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	tr.Finalize()

	got := tr.All()
	if len(got) != len(want) {
		t.Fatalf("All() returned %d entries, want %d", len(got), len(want))
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Value < got[j].Value })
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
