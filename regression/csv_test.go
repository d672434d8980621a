// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regression

import (
	"strings"
	"testing"

	"github.com/mulark/visgression/fversion"
)

func TestToCsv(t *testing.T) {
	agg := &Aggregate{
		Label:    "flame10k",
		Cohort:   []MapInfo{mapA},
		Versions: []fversion.Version{fversion.New(0, 17, 66)},
		Metrics: []Metrics{{
			WholeUpdate:     10,
			EntityUpdate:    6,
			Trains:          3,
			TrainPathFinder: 2,
		}},
	}
	var sb strings.Builder
	if err := agg.ToCsv(&sb); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	want := "factorio_version,wholeUpdate,circuitNetworkUpdate,transportLinesUpdate,fluidsUpdate,entityUpdate,electricNetworkUpdate,logisticManagerUpdate,trains,trainPathFinder,other\n" +
		"0.17.66,10,0,0,0,6,0,0,3,2,-1\n"
	if got != want {
		t.Errorf("ToCsv output:\n%s\nwant:\n%s", got, want)
	}
}
