// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regression

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mulark/visgression/fversion"
)

// A Checkpoint is a version at which the number of maps holding a
// sample strictly exceeds the count at every earlier version. Its
// cohort is the set of maps sampled at exactly that version; the cohort
// may shrink at later versions but never gains members.
type Checkpoint struct {
	Version fversion.Version
	Cohort  []MapInfo // ascending
}

// Checkpoints scans the union of all sampled versions in ascending
// order, tracking how many maps hold a sample at each, and returns the
// versions where that count sets a new maximum. A version whose count
// merely matches the running maximum is not a checkpoint, so a map
// whose data begins at such a version belongs to no cohort at all;
// the original behaved the same way. An empty table yields nil.
func (t *Table) Checkpoints() []Checkpoint {
	counts := make(map[fversion.Version]int)
	for _, m := range t.maps {
		for v := range t.series[m] {
			counts[v]++
		}
	}
	versions := make([]fversion.Version, 0, len(counts))
	for v := range counts {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })

	var cps []Checkpoint
	prevSeen := 0
	for _, v := range versions {
		if counts[v] > prevSeen {
			prevSeen = counts[v]
			cps = append(cps, Checkpoint{Version: v, Cohort: t.cohortAt(v)})
		}
	}
	return cps
}

// cohortAt returns the maps holding a sample at v, ascending.
func (t *Table) cohortAt(v fversion.Version) []MapInfo {
	var cohort []MapInfo
	for _, m := range t.maps {
		if _, ok := t.series[m][v]; ok {
			cohort = append(cohort, m)
		}
	}
	return cohort
}

// An Aggregate is one renderable series: a label, the cohort that
// defines it, and the averaged metrics per version. Cohort and series
// travel together in one record so no caller ever has to pair up two
// independently ordered collections.
type Aggregate struct {
	Label    string
	Cohort   []MapInfo          // ascending
	Versions []fversion.Version // ascending
	Metrics  []Metrics          // parallel to Versions
}

// Aggregate computes cp's chain: for every version at or after
// cp.Version that appears in any cohort member's series, the mean of
// the members holding a sample at that version. Contributors are summed
// in ascending MapInfo order so results are byte-identical across runs.
//
// A checkpoint with an empty cohort, or a version that somehow gathered
// no contributors, indicates the checkpoint was not derived from this
// table; both fail loudly rather than divide by zero.
func (t *Table) Aggregate(cp Checkpoint) (*Aggregate, error) {
	if len(cp.Cohort) == 0 {
		return nil, fmt.Errorf("checkpoint %s has an empty cohort", cp.Version)
	}
	type acc struct {
		sum Metrics
		n   int
	}
	accs := make(map[fversion.Version]*acc)
	for _, m := range cp.Cohort {
		series, ok := t.series[m]
		if !ok {
			return nil, fmt.Errorf("checkpoint %s cohort member %q is not in the table", cp.Version, m.Name)
		}
		if _, ok := series[cp.Version]; !ok {
			return nil, fmt.Errorf("checkpoint %s cohort member %q has no sample at the checkpoint version", cp.Version, m.Name)
		}
		for v, met := range series {
			if v.Less(cp.Version) {
				continue
			}
			a := accs[v]
			if a == nil {
				a = new(acc)
				accs[v] = a
			}
			a.sum.accum(met)
			a.n++
		}
	}

	agg := &Aggregate{
		Label:  "Maps beginning in " + cp.Version.String(),
		Cohort: cp.Cohort,
	}
	for v := range accs {
		agg.Versions = append(agg.Versions, v)
	}
	sort.Slice(agg.Versions, func(i, j int) bool { return agg.Versions[i].Less(agg.Versions[j]) })
	for _, v := range agg.Versions {
		a := accs[v]
		if a.n == 0 {
			return nil, fmt.Errorf("checkpoint %s has no contributors at version %s", cp.Version, v)
		}
		agg.Metrics = append(agg.Metrics, a.sum.div(float64(a.n)))
	}
	return agg, nil
}

// MapAggregate returns m's own series as a degenerate single-map
// aggregation: cohort {m}, every sample untouched.
func (t *Table) MapAggregate(m MapInfo) (*Aggregate, error) {
	series, ok := t.series[m]
	if !ok {
		return nil, fmt.Errorf("map %q (%s) is not in the table", m.Name, m.SHA256)
	}
	agg := &Aggregate{
		Label:  strings.TrimSuffix(m.Name, ".zip"),
		Cohort: []MapInfo{m},
	}
	for _, v := range t.Versions(m) {
		agg.Versions = append(agg.Versions, v)
		agg.Metrics = append(agg.Metrics, series[v])
	}
	return agg, nil
}
