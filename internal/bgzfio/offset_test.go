// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzfio

import (
	"testing"

	"github.com/biogo/hts/bgzf"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	off := bgzf.Offset{File: 123456, Block: 789}
	v := Pack(off)
	got := Unpack(v)
	if got != off {
		t.Errorf("Unpack(Pack(%v)) = %v", off, got)
	}
}

func TestSameBlock(t *testing.T) {
	a := bgzf.Offset{File: 100, Block: 0}
	b := bgzf.Offset{File: 100, Block: 500}
	c := bgzf.Offset{File: 200, Block: 0}

	if !SameBlock(a, b) {
		t.Error("offsets sharing a block should be SameBlock")
	}
	if SameBlock(a, c) {
		t.Error("offsets in different blocks should not be SameBlock")
	}
}

func TestBlockOffset(t *testing.T) {
	v := Pack(bgzf.Offset{File: 42, Block: 9})
	if got := BlockOffset(v); got != 42 {
		t.Errorf("BlockOffset = %d, want 42", got)
	}
}
