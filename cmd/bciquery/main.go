// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bciquery command reads a .bci file and either prints every
// feature it holds, in file order, or every feature overlapping a
// given region.
//
// usage: bciquery -in in.bci [-region chr1:100-200]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kortschak/bcis"
	"github.com/kortschak/bcis/feature"
)

func main() {
	inPath := flag.String("in", "", "input .bci path")
	region := flag.String("region", "", "contig:start-end overlap query; if empty, full iteration")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bciquery -in in.bci [-region chr1:100-200]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	r, err := bcis.Open(opener(*inPath), "feature", feature.NewDeserializer)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	if *region == "" {
		it, err := r.Iterator()
		if err != nil {
			log.Fatal(err)
		}
		defer it.Close()
		for it.Next() {
			fmt.Println(it.Record())
		}
		if err := it.Err(); err != nil {
			log.Fatal(err)
		}
		return
	}

	contig, start, end, err := parseRegion(*region)
	if err != nil {
		log.Fatal(err)
	}
	q, err := r.Query(contig, start, end)
	if err != nil {
		log.Fatal(err)
	}
	defer q.Close()
	for q.Next() {
		fmt.Println(q.Record())
	}
	if err := q.Err(); err != nil {
		log.Fatal(err)
	}
}

// opener returns a bcis.Opener that reopens path independently for
// every clone bcis.Reader makes.
func opener(path string) bcis.Opener {
	return func() (io.ReadSeeker, error) {
		return os.Open(path)
	}
}

func parseRegion(s string) (contig string, start, end uint32, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("malformed region %q", s)
	}
	span := strings.SplitN(parts[1], "-", 2)
	if len(span) != 2 {
		return "", 0, 0, fmt.Errorf("malformed region %q", s)
	}
	s0, err := strconv.ParseUint(span[0], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad region start %q: %w", s, err)
	}
	e0, err := strconv.ParseUint(span[1], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad region end %q: %w", s, err)
	}
	return parts[0], uint32(s0), uint32(e0), nil
}
