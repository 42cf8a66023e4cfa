// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import "fmt"

// Contig is a named reference sequence of fixed length.
type Contig struct {
	Name   string
	Length uint32
}

// Dictionary is an ordered list of contigs together with a name-to-index
// lookup. It is supplied by the host application at write time and
// reconstructed from the file header at read time.
type Dictionary struct {
	contigs []Contig
	byName  map[string]uint32
}

// NewDictionary builds a Dictionary from an ordered list of contigs. It
// fails if two contigs share a name or if any contig has non-positive
// length.
func NewDictionary(contigs []Contig) (*Dictionary, error) {
	byName := make(map[string]uint32, len(contigs))
	for i, c := range contigs {
		if c.Length == 0 {
			return nil, newError(OutOfBounds, "NewDictionary", fmt.Errorf("contig %q has zero length", c.Name))
		}
		if _, dup := byName[c.Name]; dup {
			return nil, newError(OutOfBounds, "NewDictionary", fmt.Errorf("duplicate contig name %q", c.Name))
		}
		byName[c.Name] = uint32(i)
	}
	cp := make([]Contig, len(contigs))
	copy(cp, contigs)
	return &Dictionary{contigs: cp, byName: byName}, nil
}

// Len returns the number of contigs in the dictionary.
func (d *Dictionary) Len() int { return len(d.contigs) }

// IndexOf returns the index of the named contig and true, or zero and
// false if name is not present.
func (d *Dictionary) IndexOf(name string) (uint32, bool) {
	i, ok := d.byName[name]
	return i, ok
}

// Contig returns the contig at i. The second result is false if i is
// out of range.
func (d *Dictionary) Contig(i uint32) (Contig, bool) {
	if int(i) >= len(d.contigs) {
		return Contig{}, false
	}
	return d.contigs[i], true
}

// Names returns every contig name in dictionary order. As documented
// for the reader this may include contigs that are not represented by
// any record in the file — the dictionary is authoritative, not a
// summary of observed data.
func (d *Dictionary) Names() []string {
	names := make([]string, len(d.contigs))
	for i, c := range d.contigs {
		names[i] = c.Name
	}
	return names
}
