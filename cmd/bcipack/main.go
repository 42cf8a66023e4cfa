// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bcipack command packs a coordinate-sorted BED-like feature file
// into a self-indexing block-compressed interval stream (a .bci file).
// The sequence dictionary is derived from a reference FASTA's index.
//
// usage: bcipack -fasta ref.fa -out out.bci < features.bed
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/fai"

	"github.com/kortschak/bcis"
	"github.com/kortschak/bcis/feature"
)

func main() {
	fastaPath := flag.String("fasta", "", "reference FASTA used to build the sequence dictionary")
	outPath := flag.String("out", "", "output .bci path")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bcipack -fasta ref.fa -out out.bci < features.bed")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *fastaPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	dict, err := dictionaryFromFASTA(*fastaPath)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	w, err := bcis.NewWriter(out, dict, "feature", feature.NewSerializer(dict))
	if err != nil {
		log.Fatal(err)
	}

	sc := bufio.NewScanner(os.Stdin)
	n := 0
	for sc.Scan() {
		f, err := parseBED(sc.Text())
		if err != nil {
			log.Fatal(err)
		}
		if f == nil {
			continue
		}
		if err := w.Write(*f); err != nil {
			log.Fatal(err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d features to %s", n, *outPath)
}

// dictionaryFromFASTA builds a bcis.Dictionary from a FASTA index,
// following the pattern cmd/ins uses to index its query FASTA with
// fai.NewIndex before reading from it.
func dictionaryFromFASTA(path string) (*bcis.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := fai.NewIndex(f)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	recs := make([]fai.Record, 0, len(idx))
	for _, rec := range idx {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Start < recs[j].Start })
	contigs := make([]bcis.Contig, len(recs))
	for i, rec := range recs {
		contigs[i] = bcis.Contig{Name: rec.Name, Length: uint32(rec.Length)}
	}
	return bcis.NewDictionary(contigs)
}

// parseBED parses one tab-separated "contig start end name score" line,
// 1-based and closed, returning nil for blank lines and track/comment
// lines beginning with '#' or "track".
func parseBED(line string) (*feature.Feature, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
		return nil, nil
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("malformed line: %q", line)
	}
	start, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad start in %q: %w", line, err)
	}
	end, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad end in %q: %w", line, err)
	}
	name := "."
	if len(fields) > 3 {
		name = fields[3]
	}
	var score float64
	if len(fields) > 4 {
		score, err = strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("bad score in %q: %w", line, err)
		}
	}
	return &feature.Feature{
		Contig: fields[0],
		Start:  uint32(start),
		End:    uint32(end),
		Name:   name,
		Score:  score,
	}, nil
}
