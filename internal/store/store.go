// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store provides the on-disk key encoding used by bciaudit to
// dump a file's loaded overlap index into a modernc.org/kv ordered
// store for offline inspection.
package store

import (
	"bytes"
	"encoding/binary"
)

var order = binary.BigEndian

// ByContigPosition is a kv compare function ordering index entry keys
// by (contig, start, end), matching the collating order the index
// itself is built under.
func ByContigPosition(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}
	rx := UnmarshalEntryKey(x)
	ry := UnmarshalEntryKey(y)

	switch {
	case rx.Contig < ry.Contig:
		return -1
	case rx.Contig > ry.Contig:
		return 1
	}
	switch {
	case rx.Start < ry.Start:
		return -1
	case rx.Start > ry.Start:
		return 1
	}
	switch {
	case rx.End < ry.End:
		return -1
	case rx.End > ry.End:
		return 1
	}
	return 0
}

// EntryKey identifies one index entry by its collating span.
type EntryKey struct {
	Contig     uint32
	Start, End uint32
}

// MarshalEntryKey returns the 12-byte big-endian encoding of k, used as
// a kv store key.
func MarshalEntryKey(k EntryKey) []byte {
	var buf [12]byte
	order.PutUint32(buf[0:4], k.Contig)
	order.PutUint32(buf[4:8], k.Start)
	order.PutUint32(buf[8:12], k.End)
	return buf[:]
}

// UnmarshalEntryKey decodes a key produced by MarshalEntryKey.
func UnmarshalEntryKey(data []byte) EntryKey {
	return EntryKey{
		Contig: order.Uint32(data[0:4]),
		Start:  order.Uint32(data[4:8]),
		End:    order.Uint32(data[8:12]),
	}
}

// MarshalVpos returns the 8-byte big-endian encoding of a packed
// virtual file offset, used as a kv store value.
func MarshalVpos(v uint64) []byte {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	return buf[:]
}

// UnmarshalVpos decodes a value produced by MarshalVpos.
func UnmarshalVpos(data []byte) uint64 {
	return order.Uint64(data)
}
