// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// trailerSize is the fixed size, in bytes, of the terminating BGZF
// block that carries the index pointer.
const trailerSize = 40

// indexOffsetField is the byte range within the trailer that holds the
// little-endian packed virtual offset of the index section. Everything
// outside this range must match trailerTemplate bit-exactly.
var indexOffsetField = [2]int{22, 30}

// trailerTemplate is the fixed byte template for the trailer block: a
// valid, empty BGZF block whose "IP" extra field carries the index
// offset. Bytes 22..29 are patched per file; every other byte is
// constant.
var trailerTemplate = [trailerSize]byte{
	0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x1c, 0x00,
	0x42, 0x43, 0x02, 0x00, 0x27, 0x00,
	0x49, 0x50, 0x08, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x03, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// buildTrailer returns the trailer block with the given packed index
// virtual offset patched into bytes 22..29.
func buildTrailer(indexVpos uint64) [trailerSize]byte {
	t := trailerTemplate
	binary.LittleEndian.PutUint64(t[indexOffsetField[0]:indexOffsetField[1]], indexVpos)
	return t
}

// verifyTrailer checks that b (the file's final 40 bytes) matches the
// trailer template outside the index-offset field, and returns the
// packed index virtual offset encoded within it.
func verifyTrailer(b []byte) (uint64, error) {
	if len(b) != trailerSize {
		return 0, newError(CorruptTrailer, "verifyTrailer", fmt.Errorf("trailer is %d bytes, want %d", len(b), trailerSize))
	}
	if !bytes.Equal(b[:indexOffsetField[0]], trailerTemplate[:indexOffsetField[0]]) ||
		!bytes.Equal(b[indexOffsetField[1]:], trailerTemplate[indexOffsetField[1]:]) {
		return 0, newError(CorruptTrailer, "verifyTrailer", fmt.Errorf("trailer does not match template"))
	}
	return binary.LittleEndian.Uint64(b[indexOffsetField[0]:indexOffsetField[1]]), nil
}
