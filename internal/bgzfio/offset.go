// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bgzfio adapts github.com/biogo/hts/bgzf to the virtual file
// offset model used by bcis: a packed 64-bit value whose upper 48 bits
// are a compressed block's byte offset and whose lower 16 bits are an
// uncompressed offset within that block.
//
// All virtual-offset arithmetic is concentrated here, in Pack, Unpack
// and SameBlock, so the rest of the package never reasons about BGZF
// block boundaries directly.
package bgzfio

import "github.com/biogo/hts/bgzf"

// Pack returns the 64-bit packed virtual offset corresponding to off.
func Pack(off bgzf.Offset) uint64 {
	return uint64(off.File)<<16 | uint64(off.Block)
}

// Unpack returns the bgzf.Offset corresponding to a packed virtual
// offset produced by Pack.
func Unpack(v uint64) bgzf.Offset {
	return bgzf.Offset{File: int64(v >> 16), Block: uint16(v & 0xffff)}
}

// SameBlock reports whether a and b address the same compressed block,
// i.e. whether no block boundary lies between them.
func SameBlock(a, b bgzf.Offset) bool {
	return (Pack(a) ^ Pack(b))&^uint64(0xffff) == 0
}

// BlockOffset returns the compressed byte offset of the block
// addressed by v.
func BlockOffset(v uint64) int64 {
	return int64(v >> 16)
}
