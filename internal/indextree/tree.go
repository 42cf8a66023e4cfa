// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package indextree provides a persistent, lazily-built, in-memory
// overlap index over (contig, start, end) spans, keyed to an arbitrary
// uint64 value (a packed virtual file offset, in bcis's use).
//
// It generalizes the single-chromosome interval-tree idiom used
// elsewhere in this codebase's ancestry (culling contained BLAST/GFF
// hits with a single github.com/biogo/store/interval.IntTree) to the
// multi-contig case, by keeping one IntTree per contig index.
package indextree

import "github.com/biogo/store/interval"

// Entry is one (span, value) pair stored in the tree.
type Entry struct {
	Contig     uint32
	Start, End uint32
	Value      uint64
}

// Tree is a map from contig index to an augmented interval tree over
// that contig's spans.
type Tree struct {
	byContig map[uint32]*interval.IntTree
	nextID   uintptr
	dirty    map[uint32]bool
	all      []Entry
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{
		byContig: make(map[uint32]*interval.IntTree),
		dirty:    make(map[uint32]bool),
	}
}

// Put inserts e into the tree. AdjustRanges must be called (via
// Finalize) before Overlappers is used if any Put calls were made since
// the last Finalize.
func (t *Tree) Put(e Entry) error {
	tr, ok := t.byContig[e.Contig]
	if !ok {
		tr = &interval.IntTree{}
		t.byContig[e.Contig] = tr
	}
	node := &node{
		id:    t.nextID,
		start: int(e.Start),
		end:   int(e.End),
		value: e.Value,
	}
	t.nextID++
	if err := tr.Insert(node, false); err != nil {
		return err
	}
	t.dirty[e.Contig] = true
	t.all = append(t.all, e)
	return nil
}

// All returns every entry put into the tree, in insertion order.
func (t *Tree) All() []Entry {
	out := make([]Entry, len(t.all))
	copy(out, t.all)
	return out
}

// Finalize recomputes the subtree range bounds (AdjustRanges) of every
// contig tree that has received inserts since the last call. It must be invoked after bulk loading and before
// Overlappers is called.
func (t *Tree) Finalize() {
	for contig := range t.dirty {
		t.byContig[contig].AdjustRanges()
	}
	t.dirty = make(map[uint32]bool)
}

// Overlappers returns every stored entry on the given contig whose span
// overlaps [start, end], in unspecified order and with no duplicates.
func (t *Tree) Overlappers(contig, start, end uint32) []Entry {
	tr, ok := t.byContig[contig]
	if !ok {
		return nil
	}
	q := &node{start: int(start), end: int(end)}
	hits := tr.Get(q)
	out := make([]Entry, len(hits))
	for i, h := range hits {
		n := h.(*node)
		out[i] = Entry{Contig: contig, Start: uint32(n.start), End: uint32(n.end), Value: n.value}
	}
	return out
}

// node adapts an Entry's span to interval.IntInterface.
type node struct {
	id         uintptr
	start, end int
	value      uint64
}

func (n *node) Range() interval.IntRange { return interval.IntRange{Start: n.start, End: n.end} }
func (n *node) Overlap(b interval.IntRange) bool {
	return n.start <= b.End && b.Start <= n.end
}
func (n *node) ID() uintptr { return n.id }
