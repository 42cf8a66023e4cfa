// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"encoding/binary"
	"io"
)

// entry is an index entry: a collating Interval paired with the packed
// virtual file offset of the first record of its (block, contig) span.
type entry struct {
	interval Interval
	vpos     uint64
}

// entryWireSize is the fixed size of an entry's wire form: a 12-byte
// Interval followed by an 8-byte virtual offset.
const entryWireSize = intervalWireSize + 8

func (e entry) writeTo(w io.Writer) error {
	if _, err := e.interval.WriteTo(w); err != nil {
		return err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], e.vpos)
	_, err := w.Write(buf[:])
	return err
}

func readEntry(r io.Reader) (entry, error) {
	iv, err := ReadInterval(r)
	if err != nil {
		return entry{}, err
	}
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return entry{}, err
	}
	return entry{interval: iv, vpos: binary.BigEndian.Uint64(buf[:])}, nil
}

// writeUTF writes s as a 2-byte big-endian length prefix followed by
// its UTF-8 bytes, mirroring the class/version/contig-name tags of the
// file header.
func writeUTF(w io.Writer, s string) error {
	b := []byte(s)
	if len(b) > 0xFFFF {
		return newError(WriteFailed, "writeUTF", io.ErrShortWrite)
	}
	var lbuf [2]byte
	binary.BigEndian.PutUint16(lbuf[:], uint16(len(b)))
	if _, err := w.Write(lbuf[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// readUTF reads a string written by writeUTF.
func readUTF(r io.Reader) (string, error) {
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

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
