// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The bciaudit command loads the overlap index of a .bci file into a
// modernc.org/kv ordered store and replays its contents as a JSON
// stream on stdout, making the index browsable offline the way
// audit-ins-db makes ins's persisted blast stores browsable.
//
// usage: bciaudit -in in.bci [-db index.kv]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"modernc.org/kv"

	"github.com/kortschak/bcis"
	"github.com/kortschak/bcis/feature"
	"github.com/kortschak/bcis/internal/store"
)

func main() {
	inPath := flag.String("in", "", "input .bci path")
	dbPath := flag.String("db", "", "kv store path; a temporary store is used and removed if empty")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bciaudit -in in.bci [-db index.kv]")
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

	entries, err := r.Index()
	if err != nil {
		log.Fatal(err)
	}

	dbFile := *dbPath
	cleanup := func() {}
	if dbFile == "" {
		f, err := os.CreateTemp("", "bciaudit-*.kv")
		if err != nil {
			log.Fatal(err)
		}
		dbFile = f.Name()
		f.Close()
		os.Remove(dbFile)
		cleanup = func() { os.Remove(dbFile) }
	}
	defer cleanup()

	opts := &kv.Options{Compare: store.ByContigPosition}
	db, err := kv.Create(dbFile, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	names := r.SequenceNames()
	byName := make(map[string]uint32, len(names))
	for i, n := range names {
		byName[n] = uint32(i)
	}
	for _, e := range entries {
		key := store.MarshalEntryKey(store.EntryKey{Contig: byName[e.Contig], Start: e.Start, End: e.End})
		if err := db.Set(key, store.MarshalVpos(e.Offset)); err != nil {
			log.Fatal(err)
		}
	}

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return
		}
		log.Fatal(err)
	}
	enc := json.NewEncoder(os.Stdout)
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
		ek := store.UnmarshalEntryKey(k)
		err = enc.Encode(auditEntry{
			Contig: names[ek.Contig],
			Start:  ek.Start,
			End:    ek.End,
			Offset: store.UnmarshalVpos(v),
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}

type auditEntry struct {
	Contig string `json:"contig"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Offset uint64 `json:"offset"`
}
