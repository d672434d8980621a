// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Visgression charts Factorio update-time regressions across game
// versions.
//
// It reads the regression-test database written by
// factorio-benchmark-helper, averages each benchmark map's runs per
// version, groups maps into cohorts by the version at which they first
// appear, and renders one SVG chart per cohort and per individual map,
// plus an HTML slide index linking each map to its forum post.
//
// Usage:
//
//	visgression [-db file | -default] [-svg dir] [-csv] [-html file] [-index url]
//
// Any failure (absent database, malformed or out-of-window version,
// unreachable megabase index) aborts the run before output is written.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mulark/visgression/fversion"
	"github.com/mulark/visgression/megabase"
	"github.com/mulark/visgression/regression"
	"github.com/mulark/visgression/storage/db"
	_ "github.com/mulark/visgression/storage/db/sqlite3"
)

var (
	dbPath     = flag.String("db", "", "regression-test database `file`")
	useDefault = flag.Bool("default", false, "use the factorio-benchmark-helper default database path")
	svgDir     = flag.String("svg", "images", "`directory` to write svg charts into")
	csvOut     = flag.Bool("csv", false, "also write each aggregated series as CSV to stdout")
	htmlOut    = flag.String("html", "", "write the slide report to this `file` (default stdout)")
	indexURL   = flag.String("index", megabase.DefaultURL, "megabase index `url`")
)

// defaultDBPath is where factorio-benchmark-helper keeps the database.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "factorio-benchmark-helper",
		"regression-testing", "regression.db"), nil
}

func main() {
	flag.Parse()

	path := *dbPath
	if *useDefault {
		var err error
		path, err = defaultDBPath()
		if err != nil {
			fail("locating default database: %v\n", err)
		}
	}
	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	ix, err := megabase.Fetch(nil, *indexURL)
	if err != nil {
		fail("%v\n", err)
	}
	links := ix.Links()

	d, err := db.Open(path)
	if err != nil {
		fail("%v\n", err)
	}
	defer d.Close()

	rows, err := d.Samples(context.Background())
	if err != nil {
		fail("querying samples: %v\n", err)
	}

	bounds := regression.DefaultBounds()
	table, err := regression.NewTable(rows, bounds)
	if err != nil {
		fail("%v\n", err)
	}

	var aggs []*regression.Aggregate
	for _, m := range table.Maps() {
		a, err := table.MapAggregate(m)
		if err != nil {
			fail("%v\n", err)
		}
		aggs = append(aggs, a)
	}
	for _, cp := range table.Checkpoints() {
		a, err := table.Aggregate(cp)
		if err != nil {
			fail("%v\n", err)
		}
		aggs = append(aggs, a)
	}

	opts := regression.ChartOptions{Dir: *svgDir}
	var slides []slide
	for _, a := range aggs {
		file, err := regression.Chart(a, fversion.DefaultSeq, bounds, opts)
		if err != nil {
			fail("charting %q: %v\n", a.Label, err)
		}
		if *csvOut {
			if err := a.ToCsv(os.Stdout); err != nil {
				fail("writing CSV for %q: %v\n", a.Label, err)
			}
		}
		s, err := newSlide(a, file, links)
		if err != nil {
			fail("%v\n", err)
		}
		slides = append(slides, s)
	}

	w := os.Stdout
	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			fail("%v\n", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeReport(w, slides); err != nil {
		fail("writing report: %v\n", err)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
