// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regression

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mulark/visgression/fversion"
)

func TestChartWritesSVG(t *testing.T) {
	table := twoMapTable(t)
	cps := table.Checkpoints()
	agg, err := table.Aggregate(cps[1])
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	file, err := Chart(agg, fversion.DefaultSeq, DefaultBounds(), ChartOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "Maps beginning in 0.17.79.svg"); file != want {
		t.Errorf("Chart wrote %q, want %q", file, want)
	}
	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<svg") {
		t.Error("chart output does not look like SVG")
	}
}

func TestChartEmptyAggregate(t *testing.T) {
	agg := &Aggregate{Label: "empty"}
	if _, err := Chart(agg, fversion.DefaultSeq, DefaultBounds(), ChartOptions{Dir: t.TempDir()}); err == nil {
		t.Error("Chart accepted an aggregate with no versions")
	}
}
