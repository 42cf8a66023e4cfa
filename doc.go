// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bcis implements a self-indexing block-compressed interval
// stream: a BGZF-backed container for a coordinate-sorted sequence of
// genomic-interval-bearing records, with an embedded spatial index that
// supports random-access overlap queries.
//
// A Writer ingests records in strictly non-decreasing collating order,
// compresses them into BGZF blocks, and on Close appends an index
// mapping block coverage intervals to block virtual file offsets. A
// Reader recovers that index from a trailer pointer stored in the
// file's final empty BGZF block, and supports both full iteration and
// overlap queries against arbitrary genomic ranges.
//
// The record type is generic: callers supply a Serializer and
// Deserializer pair that know how to write and read their own record
// format; bcis only needs each record's collating Interval.
package bcis
