// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/kortschak/bcis"
	"github.com/kortschak/bcis/feature"
)

func testDictionary(t *testing.T) *bcis.Dictionary {
	t.Helper()
	dict, err := bcis.NewDictionary([]bcis.Contig{
		{Name: "chr1", Length: 1000},
		{Name: "chr2", Length: 500},
	})
	if err != nil {
		t.Fatalf("NewDictionary failed: %v", err)
	}
	return dict
}

// openerFor returns a bcis.Opener that serves independent read cursors
// over a snapshot of data, one per call, as Reader clones require.
func openerFor(data []byte) bcis.Opener {
	return func() (io.ReadSeeker, error) {
		return bytes.NewReader(data), nil
	}
}

func writeThreeFeatures(t *testing.T) []byte {
	t.Helper()
	dict := testDictionary(t)
	var buf bytes.Buffer
	w, err := bcis.NewWriter(&buf, dict, "feature", feature.NewSerializer(dict))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	records := []feature.Feature{
		{Contig: "chr1", Start: 100, End: 200, Name: "R1", Score: 1},
		{Contig: "chr1", Start: 150, End: 300, Name: "R2", Score: 2},
		{Contig: "chr2", Start: 10, End: 50, Name: "R3", Score: 3},
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write(%v) failed: %v", r, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}

func openTestReader(t *testing.T, data []byte) *bcis.Reader[feature.Feature] {
	t.Helper()
	r, err := bcis.Open(openerFor(data), "feature", feature.NewDeserializer)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return r
}

// Scenario 1: round trip in file order.
func TestRoundTrip(t *testing.T) {
	data := writeThreeFeatures(t)
	r := openTestReader(t, data)
	defer r.Close()

	it, err := r.Iterator()
	if err != nil {
		t.Fatalf("Iterator failed: %v", err)
	}
	defer it.Close()

	var names []string
	for it.Next() {
		names = append(names, it.Record().Name)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	want := []string{"R1", "R2", "R3"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("record %d = %s, want %s", i, names[i], want[i])
		}
	}
}

// Scenarios 2-4: overlap queries.
func TestQuery(t *testing.T) {
	data := writeThreeFeatures(t)

	cases := []struct {
		name       string
		contig     string
		start, end uint32
		wantNames  []string
	}{
		{"overlapsR2only", "chr1", 250, 260, []string{"R2"}},
		{"overlapsR3only", "chr2", 1, 100, []string{"R3"}},
		{"overlapsNone", "chr1", 500, 600, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := openTestReader(t, data)
			defer r.Close()

			q, err := r.Query(c.contig, c.start, c.end)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			defer q.Close()

			var got []string
			for q.Next() {
				got = append(got, q.Record().Name)
			}
			if err := q.Err(); err != nil {
				t.Fatalf("query iteration failed: %v", err)
			}
			if len(got) != len(c.wantNames) {
				t.Fatalf("got %v, want %v", got, c.wantNames)
			}
			for i := range c.wantNames {
				if got[i] != c.wantNames[i] {
					t.Errorf("hit %d = %s, want %s", i, got[i], c.wantNames[i])
				}
			}
		})
	}
}

// Scenario 5: writing out of order fails.
func TestWriteNotSorted(t *testing.T) {
	dict := testDictionary(t)
	var buf bytes.Buffer
	w, err := bcis.NewWriter(&buf, dict, "feature", feature.NewSerializer(dict))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	r2 := feature.Feature{Contig: "chr1", Start: 150, End: 300, Name: "R2"}
	r1 := feature.Feature{Contig: "chr1", Start: 100, End: 200, Name: "R1"}
	if err := w.Write(r2); err != nil {
		t.Fatalf("Write(R2) failed: %v", err)
	}
	err = w.Write(r1)
	if err == nil {
		t.Fatal("writing an out-of-order record should fail")
	}
	if kind, ok := bcis.ErrorKind(err); !ok || kind != bcis.NotSorted {
		t.Errorf("want NotSorted, got %v", err)
	}
}

// Scenario 6a: mutating the trailer's patched offset field is still a
// structurally valid trailer at open, but fails once the index is read.
func TestCorruptIndexOffset(t *testing.T) {
	data := writeThreeFeatures(t)
	mutated := append([]byte(nil), data...)
	mutated[len(mutated)-18] ^= 0xff

	r, err := bcis.Open(openerFor(mutated), "feature", feature.NewDeserializer)
	if err != nil {
		t.Fatalf("Open should succeed despite a mutated offset: %v", err)
	}
	defer r.Close()

	_, err = r.Query("chr1", 1, 10)
	if err == nil {
		t.Fatal("querying with a corrupted index offset should fail")
	}
	kind, ok := bcis.ErrorKind(err)
	if !ok || (kind != bcis.CorruptIndex && kind != bcis.ReadFailed) {
		t.Errorf("want CorruptIndex or ReadFailed, got %v", err)
	}
}

// Scenario 6b: mutating a template byte outside the offset field fails
// at open.
func TestCorruptTrailerTemplate(t *testing.T) {
	data := writeThreeFeatures(t)
	mutated := append([]byte(nil), data...)
	mutated[len(mutated)-40] ^= 0xff

	_, err := bcis.Open(openerFor(mutated), "feature", feature.NewDeserializer)
	if err == nil {
		t.Fatal("mutated trailer template should fail to open")
	}
	if kind, ok := bcis.ErrorKind(err); !ok || kind != bcis.CorruptTrailer {
		t.Errorf("want CorruptTrailer, got %v", err)
	}
}

func TestClassMismatch(t *testing.T) {
	data := writeThreeFeatures(t)
	_, err := bcis.Open(openerFor(data), "not-feature", feature.NewDeserializer)
	if err == nil {
		t.Fatal("wrong class tag should fail to open")
	}
	if kind, ok := bcis.ErrorKind(err); !ok || kind != bcis.ClassMismatch {
		t.Errorf("want ClassMismatch, got %v", err)
	}
}

func TestSequenceNames(t *testing.T) {
	data := writeThreeFeatures(t)
	r := openTestReader(t, data)
	defer r.Close()
	names := r.SequenceNames()
	if len(names) != 2 || names[0] != "chr1" || names[1] != "chr2" {
		t.Errorf("SequenceNames() = %v", names)
	}
}

func TestClone(t *testing.T) {
	data := writeThreeFeatures(t)
	r := openTestReader(t, data)
	defer r.Close()

	clone, err := r.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer clone.Close()

	it, err := clone.Iterator()
	if err != nil {
		t.Fatalf("Iterator on clone failed: %v", err)
	}
	defer it.Close()
	n := 0
	for it.Next() {
		n++
	}
	if n != 3 {
		t.Errorf("clone iterated %d records, want 3", n)
	}
}
