// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcis

import (
	"io"
	"sync"

	"github.com/kortschak/bcis/internal/bgzfio"
	"github.com/kortschak/bcis/internal/indextree"
)

// Deserializer consumes exactly one record's bytes from r and returns
// the decoded record along with the collating Interval it occupies. It
// must exactly mirror the byte layout a matching Serializer produces.
type Deserializer[R any] func(r io.Reader) (R, Interval, error)

// Opener returns a fresh, independently-seekable handle on the
// underlying file. Reader calls it once at Open and again for every
// Clone, so that each cursor owns its own file descriptor.
type Opener func() (io.ReadSeeker, error)

// shared holds the state common to a Reader and every clone made from
// it: the dictionary, trailer metadata, and the lazily-built overlap
// index. Exactly one of a family of clones ever builds the index; the
// others observe it once published.
type shared struct {
	open Opener

	class   string
	version string
	dict    *Dictionary

	dataVpos  uint64
	indexVpos uint64

	mu   sync.Mutex
	tree *indextree.Tree
}

// Reader recovers the trailer, dictionary, and (on first query) the
// overlap index of a file written by Writer, and supports both full
// iteration and overlap queries against it.
type Reader[R any] struct {
	shared   *shared
	newDeser func(*Dictionary) Deserializer[R]
	deser    Deserializer[R]

	src    io.ReadSeeker
	stream *bgzfio.Reader
}

// Open reads the trailer, header, and dictionary of the file produced
// by open, and returns a Reader for records of type R. class must match
// the class tag the file was written with, or ClassMismatch is
// returned. newDeser builds a Deserializer bound to the reconstructed
// dictionary; it is called once per clone.
func Open[R any](open Opener, class string, newDeser func(*Dictionary) Deserializer[R]) (*Reader[R], error) {
	src, err := open()
	if err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}

	indexVpos, err := readTrailer(src)
	if err != nil {
		return nil, err
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}
	stream, err := bgzfio.NewReader(src, concurrency)
	if err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}

	gotClass, err := readUTF(stream)
	if err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}
	if gotClass != class {
		return nil, newError(ClassMismatch, "Open", nil)
	}
	version, err := readUTF(stream)
	if err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}

	nContigs, err := readUint32(stream)
	if err != nil {
		return nil, newError(ReadFailed, "Open", err)
	}
	contigs := make([]Contig, nContigs)
	for i := range contigs {
		length, err := readUint32(stream)
		if err != nil {
			return nil, newError(ReadFailed, "Open", err)
		}
		name, err := readUTF(stream)
		if err != nil {
			return nil, newError(ReadFailed, "Open", err)
		}
		contigs[i] = Contig{Name: name, Length: length}
	}
	dict, err := NewDictionary(contigs)
	if err != nil {
		return nil, err
	}

	sh := &shared{
		open:      open,
		class:     gotClass,
		version:   version,
		dict:      dict,
		dataVpos:  bgzfio.Pack(stream.Position()),
		indexVpos: indexVpos,
	}

	return &Reader[R]{
		shared:   sh,
		newDeser: newDeser,
		deser:    newDeser(dict),
		src:      src,
		stream:   stream,
	}, nil
}

// readTrailer reads the final 40 bytes of src directly, verifies the
// template, and returns the decoded index virtual offset.
func readTrailer(src io.ReadSeeker) (uint64, error) {
	if _, err := src.Seek(-trailerSize, io.SeekEnd); err != nil {
		return 0, newError(ReadFailed, "readTrailer", err)
	}
	buf := make([]byte, trailerSize)
	if _, err := io.ReadFull(src, buf); err != nil {
		return 0, newError(ReadFailed, "readTrailer", err)
	}
	return verifyTrailer(buf)
}

// Dictionary returns the file's sequence dictionary.
func (r *Reader[R]) Dictionary() *Dictionary { return r.shared.dict }

// SequenceNames returns every contig name in the dictionary, in
// dictionary order. The dictionary is authoritative: a name may be
// present here even if no record in the file touches that contig.
func (r *Reader[R]) SequenceNames() []string { return r.shared.dict.Names() }

// Clone returns a new Reader sharing this reader's dictionary and
// (possibly not-yet-built) index, but owning an independent cursor
// positioned at the start of the payload.
func (r *Reader[R]) Clone() (*Reader[R], error) {
	src, err := r.shared.open()
	if err != nil {
		return nil, newError(ReadFailed, "Clone", err)
	}
	stream, err := bgzfio.NewReader(src, concurrency)
	if err != nil {
		return nil, newError(ReadFailed, "Clone", err)
	}
	if err := stream.Seek(bgzfio.Unpack(r.shared.dataVpos)); err != nil {
		return nil, newError(ReadFailed, "Clone", err)
	}
	return &Reader[R]{
		shared:   r.shared,
		newDeser: r.newDeser,
		deser:    r.newDeser(r.shared.dict),
		src:      src,
		stream:   stream,
	}, nil
}

// Close releases this reader's cursor. Clones made from it are
// unaffected.
func (r *Reader[R]) Close() error {
	if err := r.stream.Close(); err != nil {
		return newError(ReadFailed, "Close", err)
	}
	return nil
}

// ensureIndex builds the shared overlap index on first use. It opens
// and reads through a private cursor so the caller's own position is
// left untouched.
func (r *Reader[R]) ensureIndex() error {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if r.shared.tree != nil {
		return nil
	}

	src, err := r.shared.open()
	if err != nil {
		return newError(ReadFailed, "ensureIndex", err)
	}
	defer func() {
		if c, ok := src.(io.Closer); ok {
			c.Close()
		}
	}()
	stream, err := bgzfio.NewReader(src, concurrency)
	if err != nil {
		return newError(ReadFailed, "ensureIndex", err)
	}
	defer stream.Close()

	if err := stream.Seek(bgzfio.Unpack(r.shared.indexVpos)); err != nil {
		return newError(ReadFailed, "ensureIndex", err)
	}
	n, err := readUint32(stream)
	if err != nil {
		return newError(ReadFailed, "ensureIndex", err)
	}

	tree := indextree.New()
	for i := uint32(0); i < n; i++ {
		e, err := readEntry(stream)
		if err != nil {
			return newError(CorruptIndex, "ensureIndex", err)
		}
		if _, ok := r.shared.dict.Contig(e.interval.Contig); !ok {
			return newError(CorruptIndex, "ensureIndex", nil)
		}
		if err := tree.Put(indextree.Entry{
			Contig: e.interval.Contig,
			Start:  e.interval.Start,
			End:    e.interval.End,
			Value:  e.vpos,
		}); err != nil {
			return newError(CorruptIndex, "ensureIndex", err)
		}
	}
	tree.Finalize()
	r.shared.tree = tree
	return nil
}

// IndexEntry is an exported view of one loaded index entry, with its
// contig resolved to a name for display.
type IndexEntry struct {
	Contig     string
	Start, End uint32
	Offset     uint64
}

// Index forces the overlap index to load (if it has not already) and
// returns every entry it holds, in no particular order. It exists for
// tools that inspect the index itself rather than querying through it.
func (r *Reader[R]) Index() ([]IndexEntry, error) {
	if err := r.ensureIndex(); err != nil {
		return nil, err
	}
	raw := r.shared.tree.All()
	out := make([]IndexEntry, len(raw))
	for i, e := range raw {
		c, _ := r.shared.dict.Contig(e.Contig)
		out[i] = IndexEntry{Contig: c.Name, Start: e.Start, End: e.End, Offset: e.Value}
	}
	return out, nil
}

// Iterator yields decoded records one at a time.
type Iterator[R any] struct {
	reader *Reader[R]
	rec    R
	err    error
	done   bool
}

// Iterator returns a full-file iterator over every record, in file
// order. It is backed by a clone of r, so it does not disturb r's own
// cursor.
func (r *Reader[R]) Iterator() (*Iterator[R], error) {
	clone, err := r.Clone()
	if err != nil {
		return nil, err
	}
	return &Iterator[R]{reader: clone}, nil
}

// Next advances the iterator and reports whether a record is available.
//
// The stop condition is checked after decoding, not before: bgzf.Reader
// only advances the File field of its reported position once a read
// actually crosses into the next block, so a fully-consumed payload
// block still reports its own start offset right up until the read
// that pulls in the index block that follows it. Checking position
// before decoding would let that read through and hand back the
// index's entry count and bytes as if they were one more record.
func (it *Iterator[R]) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	rec, _, err := it.reader.deser(it.reader.stream)
	if err != nil {
		if err != io.EOF {
			it.err = newError(ReadFailed, "Next", err)
		}
		return false
	}
	if bgzfio.Pack(it.reader.stream.Position()) >= it.reader.shared.indexVpos {
		it.done = true
		return false
	}
	it.rec = rec
	return true
}

// Record returns the record most recently decoded by Next.
func (it *Iterator[R]) Record() R { return it.rec }

// Err returns the first error encountered, if any. io.EOF is not
// reported.
func (it *Iterator[R]) Err() error { return it.err }

// Close releases the iterator's underlying cursor.
func (it *Iterator[R]) Close() error { return it.reader.Close() }

// QueryIterator yields, in unspecified order across blocks, every
// record whose interval overlaps a query interval.
type QueryIterator[R any] struct {
	reader *Reader[R]
	query  Interval

	hits []indextree.Entry
	pos  int

	inBlock bool
	rec     R
	err     error
}

// Query returns an overlap iterator for the half-open... rather,
// closed, 1-based range [start, end] on the named contig. The index is
// built on first call across the whole reader family.
func (r *Reader[R]) Query(contig string, start, end uint32) (*QueryIterator[R], error) {
	iv, err := NewIntervalByName(r.shared.dict, contig, start, end)
	if err != nil {
		return nil, err
	}
	return r.QueryInterval(iv)
}

// QueryInterval is like Query but takes an already-constructed Interval.
func (r *Reader[R]) QueryInterval(iv Interval) (*QueryIterator[R], error) {
	if err := r.ensureIndex(); err != nil {
		return nil, err
	}
	clone, err := r.Clone()
	if err != nil {
		return nil, err
	}
	hits := r.shared.tree.Overlappers(iv.Contig, iv.Start, iv.End)
	return &QueryIterator[R]{reader: clone, query: iv, hits: hits}, nil
}

// Next advances the query iterator and reports whether a record is
// available.
func (q *QueryIterator[R]) Next() bool {
	if q.err != nil {
		return false
	}
	for {
		if !q.inBlock {
			if q.pos >= len(q.hits) {
				return false
			}
			hit := q.hits[q.pos]
			q.pos++
			target := bgzfio.Unpack(hit.Value)
			if !bgzfio.SameBlock(q.reader.stream.Position(), target) {
				if err := q.reader.stream.Seek(target); err != nil {
					q.err = newError(ReadFailed, "Next", err)
					return false
				}
			}
			q.inBlock = true
		}

		rec, iv, err := q.reader.deser(q.reader.stream)
		if err != nil {
			if err == io.EOF {
				q.inBlock = false
				continue
			}
			q.err = newError(ReadFailed, "Next", err)
			return false
		}
		// Guard against the same lazy block-transition exposure as
		// Iterator.Next: a query whose last match is the final record
		// in the payload never sees UpstreamOf trigger, so without this
		// check the next read would decode the index section's entry
		// count and bytes as a bogus record.
		if bgzfio.Pack(q.reader.stream.Position()) >= q.reader.shared.indexVpos {
			q.inBlock = false
			continue
		}
		if q.query.UpstreamOf(iv) {
			q.inBlock = false
			continue
		}
		if !q.query.Overlaps(iv) {
			continue
		}
		q.rec = rec
		return true
	}
}

// Record returns the record most recently decoded by Next.
func (q *QueryIterator[R]) Record() R { return q.rec }

// Err returns the first error encountered, if any.
func (q *QueryIterator[R]) Err() error { return q.err }

// Close releases the query iterator's underlying cursor.
func (q *QueryIterator[R]) Close() error { return q.reader.Close() }
