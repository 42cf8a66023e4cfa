// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature provides a minimal scored-interval record, the
// reference payload type used by the bcipack, bciquery, bciaudit and
// bcistat commands. It plays the role the teacher's gff.Feature plays
// for GFF-based tools: a concrete, generic-over-R instantiation that
// exercises the package without baking a payload type into it.
package feature

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/kortschak/bcis"
)

// Feature is a named, scored interval on a contig, modelled on the
// fields of a BED/GFF feature record.
type Feature struct {
	Contig string
	Start  uint32
	End    uint32
	Name   string
	Score  float64
}

func (f Feature) String() string {
	return fmt.Sprintf("%s:%d-%d\t%s\t%v", f.Contig, f.Start, f.End, f.Name, f.Score)
}

// NewSerializer returns a bcis.Serializer bound to dict, writing
// Features in collating-interval-prefixed form: the 12-byte Interval
// wire form, followed by the feature name and score.
func NewSerializer(dict *bcis.Dictionary) bcis.Serializer[Feature] {
	return func(w io.Writer, rec Feature) (bcis.Interval, error) {
		iv, err := bcis.NewIntervalByName(dict, rec.Contig, rec.Start, rec.End)
		if err != nil {
			return bcis.Interval{}, err
		}
		if _, err := iv.WriteTo(w); err != nil {
			return bcis.Interval{}, err
		}
		if err := writeString(w, rec.Name); err != nil {
			return bcis.Interval{}, err
		}
		if err := writeFloat64(w, rec.Score); err != nil {
			return bcis.Interval{}, err
		}
		return iv, nil
	}
}

// NewDeserializer returns a bcis.Deserializer bound to dict, mirroring
// the layout NewSerializer writes.
func NewDeserializer(dict *bcis.Dictionary) bcis.Deserializer[Feature] {
	return func(r io.Reader) (Feature, bcis.Interval, error) {
		iv, err := bcis.ReadInterval(r)
		if err != nil {
			return Feature{}, bcis.Interval{}, err
		}
		name, err := readString(r)
		if err != nil {
			return Feature{}, bcis.Interval{}, err
		}
		score, err := readFloat64(r)
		if err != nil {
			return Feature{}, bcis.Interval{}, err
		}
		c, _ := dict.Contig(iv.Contig)
		return Feature{
			Contig: c.Name,
			Start:  iv.Start,
			End:    iv.End,
			Name:   name,
			Score:  score,
		}, iv, nil
	}
}

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	var lbuf [2]byte
	binary.BigEndian.PutUint16(lbuf[:], uint16(len(b)))
	if _, err := w.Write(lbuf[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r io.Reader) (string, error) {
	var lbuf [2]byte
	if _, err := io.ReadFull(r, lbuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lbuf[:])
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeFloat64(w io.Writer, v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func readFloat64(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}
