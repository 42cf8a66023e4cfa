// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bcistat command walks every feature in a .bci file, accumulates
// per-base depth of coverage per contig with a step.Vector, and reports
// coverage summary statistics per contig as a JSON stream on stdout.
//
// usage: bcistat -in in.bci
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/biogo/store/step"
	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/bcis"
	"github.com/kortschak/bcis/feature"
)

// depth is the step.Equaler value stored in each contig's coverage
// vector: the number of features covering a run of bases.
type depth int

func (d depth) Equal(e step.Equaler) bool { return d == e.(depth) }

func main() {
	inPath := flag.String("in", "", "input .bci path")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bcistat -in in.bci")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	r, err := bcis.Open(func() (io.ReadSeeker, error) { return os.Open(*inPath) }, "feature", feature.NewDeserializer)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	vectors := make(map[string]*step.Vector)
	for _, name := range r.SequenceNames() {
		v, err := step.New(0, 1, depth(0))
		if err != nil {
			log.Fatal(err)
		}
		v.Relaxed = true
		vectors[name] = v
	}

	it, err := r.Iterator()
	if err != nil {
		log.Fatal(err)
	}
	for it.Next() {
		f := it.Record()
		v := vectors[f.Contig]
		err := v.ApplyRange(int(f.Start)-1, int(f.End), func(e step.Equaler) step.Equaler {
			return e.(depth) + 1
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	if err := it.Err(); err != nil {
		log.Fatal(err)
	}
	it.Close()

	var names []string
	for name := range vectors {
		names = append(names, name)
	}
	sort.Strings(names)

	enc := json.NewEncoder(os.Stdout)
	for _, name := range names {
		var x, weights []float64
		var covered int
		vectors[name].Do(func(start, end int, e step.Equaler) {
			d := e.(depth)
			if d == 0 {
				return
			}
			covered += end - start
			x = append(x, float64(d))
			weights = append(weights, float64(end-start))
		})
		s := contigStat{Contig: name, CoveredBases: covered}
		if len(x) > 0 {
			s.MeanDepth = stat.Mean(x, weights)
			s.VarianceDepth = stat.Variance(x, weights)
		}
		if err := enc.Encode(s); err != nil {
			log.Fatal(err)
		}
	}
}

type contigStat struct {
	Contig        string  `json:"contig"`
	CoveredBases  int     `json:"covered_bases"`
	MeanDepth     float64 `json:"mean_depth"`
	VarianceDepth float64 `json:"variance_depth"`
}
