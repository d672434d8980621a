// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regression aggregates per-run update-time samples, collected
// across many Factorio versions and many benchmark maps, into
// version-aligned summary series.
//
// Samples are first grouped into a Table, one ordered series of
// (version, metrics) per map. Checkpoints finds the versions at which
// the set of sampled maps grows, and Aggregate averages, for each
// version from a checkpoint onward, the metrics of every cohort map
// still holding a sample at that version. All computation is a
// deterministic pure fold over the finished Table; nothing here blocks
// or retries.
package regression

import (
	"fmt"
	"sort"

	"github.com/mulark/visgression/fversion"
)

// Metrics is one averaged measurement of the Factorio update loop, in
// milliseconds per tick. WholeUpdate is the total; the remaining fields
// are sub-phases of it. The residual time not attributed to any named
// sub-phase is derived by Other and never stored.
type Metrics struct {
	WholeUpdate           float64
	CircuitNetworkUpdate  float64
	TransportLinesUpdate  float64
	FluidsUpdate          float64
	EntityUpdate          float64
	ElectricNetworkUpdate float64
	LogisticManagerUpdate float64
	Trains                float64
	TrainPathFinder       float64
}

// Other returns WholeUpdate minus the sum of the named sub-phases.
// Measurement noise can push the sub-phase sum past the total, so the
// result may be negative; it is reported as-is, never clamped.
func (m Metrics) Other() float64 {
	return m.WholeUpdate - m.CircuitNetworkUpdate - m.TransportLinesUpdate -
		m.FluidsUpdate - m.EntityUpdate - m.ElectricNetworkUpdate -
		m.LogisticManagerUpdate - m.Trains - m.TrainPathFinder
}

// accum adds o pointwise. A sum of Metrics has no standalone meaning;
// it exists only to be divided by a sample count.
func (m *Metrics) accum(o Metrics) {
	m.WholeUpdate += o.WholeUpdate
	m.CircuitNetworkUpdate += o.CircuitNetworkUpdate
	m.TransportLinesUpdate += o.TransportLinesUpdate
	m.FluidsUpdate += o.FluidsUpdate
	m.EntityUpdate += o.EntityUpdate
	m.ElectricNetworkUpdate += o.ElectricNetworkUpdate
	m.LogisticManagerUpdate += o.LogisticManagerUpdate
	m.Trains += o.Trains
	m.TrainPathFinder += o.TrainPathFinder
}

// div returns m divided pointwise by n.
func (m Metrics) div(n float64) Metrics {
	return Metrics{
		WholeUpdate:           m.WholeUpdate / n,
		CircuitNetworkUpdate:  m.CircuitNetworkUpdate / n,
		TransportLinesUpdate:  m.TransportLinesUpdate / n,
		FluidsUpdate:          m.FluidsUpdate / n,
		EntityUpdate:          m.EntityUpdate / n,
		ElectricNetworkUpdate: m.ElectricNetworkUpdate / n,
		LogisticManagerUpdate: m.LogisticManagerUpdate / n,
		Trains:                m.Trains / n,
		TrainPathFinder:       m.TrainPathFinder / n,
	}
}

// A MapInfo identifies one benchmark map. Identity is the full
// (name, hash) pair: a renamed save keeps its identity only if the
// content hash also matches, and two saves sharing a display name are
// distinct entities.
type MapInfo struct {
	Name   string
	SHA256 string
}

// Compare orders MapInfos by (Name, SHA256). This order fixes every
// traversal the aggregation performs, keeping floating-point sums
// byte-reproducible across runs.
func (m MapInfo) Compare(o MapInfo) int {
	if m.Name != o.Name {
		if m.Name < o.Name {
			return -1
		}
		return 1
	}
	if m.SHA256 != o.SHA256 {
		if m.SHA256 < o.SHA256 {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether m precedes o.
func (m MapInfo) Less(o MapInfo) bool {
	return m.Compare(o) < 0
}

// A Row is one repository record: the metrics recorded for one map at
// one version. The repository query averages multiple runs of the same
// (map, version) pair, but NewTable also accepts raw per-run rows and
// folds them itself.
type Row struct {
	Version fversion.Version
	Metrics Metrics
	Map     MapInfo
}

// Bounds is the analysis window. Samples outside [Earliest, Latest] are
// a data-integrity fault: the window is misconfigured relative to the
// data, and silently dropping rows would corrupt cohort membership.
type Bounds struct {
	Earliest, Latest fversion.Version
}

// DefaultBounds is the window the regression-test database covers.
func DefaultBounds() Bounds {
	return Bounds{
		Earliest: fversion.New(0, 17, 66),
		Latest:   fversion.New(0, 18, 45),
	}
}

// Contains reports whether v lies within the window.
func (b Bounds) Contains(v fversion.Version) bool {
	return !v.Less(b.Earliest) && !b.Latest.Less(v)
}

// A VersionRangeError reports a sample whose version falls outside the
// analysis window.
type VersionRangeError struct {
	Version fversion.Version
	Map     MapInfo
	Bounds  Bounds
}

func (e *VersionRangeError) Error() string {
	return fmt.Sprintf("sample for map %q at version %s is outside the analysis window [%s, %s]",
		e.Map.Name, e.Version, e.Bounds.Earliest, e.Bounds.Latest)
}

// A Table holds every map's ordered series of averaged samples. It is
// built once from repository rows and read-only afterward.
type Table struct {
	maps   []MapInfo // ascending
	series map[MapInfo]map[fversion.Version]Metrics
}

// NewTable groups rows by map and version. Rows sharing a (map,
// version) key are folded as a running sum and count and averaged once
// at the end, so per-run input needs no pre-averaging. Any row outside
// bounds fails the whole build with a *VersionRangeError.
func NewTable(rows []Row, bounds Bounds) (*Table, error) {
	type acc struct {
		sum Metrics
		n   int
	}
	accs := make(map[MapInfo]map[fversion.Version]*acc)
	for _, r := range rows {
		if !bounds.Contains(r.Version) {
			return nil, &VersionRangeError{Version: r.Version, Map: r.Map, Bounds: bounds}
		}
		byVersion := accs[r.Map]
		if byVersion == nil {
			byVersion = make(map[fversion.Version]*acc)
			accs[r.Map] = byVersion
		}
		a := byVersion[r.Version]
		if a == nil {
			a = new(acc)
			byVersion[r.Version] = a
		}
		a.sum.accum(r.Metrics)
		a.n++
	}

	t := &Table{series: make(map[MapInfo]map[fversion.Version]Metrics, len(accs))}
	for m, byVersion := range accs {
		t.maps = append(t.maps, m)
		avgs := make(map[fversion.Version]Metrics, len(byVersion))
		for v, a := range byVersion {
			avgs[v] = a.sum.div(float64(a.n))
		}
		t.series[m] = avgs
	}
	sort.Slice(t.maps, func(i, j int) bool { return t.maps[i].Less(t.maps[j]) })
	return t, nil
}

// Maps returns every map in the table in ascending MapInfo order.
// The returned slice is shared and must not be modified.
func (t *Table) Maps() []MapInfo {
	return t.maps
}

// Versions returns m's sampled versions in ascending order.
func (t *Table) Versions(m MapInfo) []fversion.Version {
	vs := make([]fversion.Version, 0, len(t.series[m]))
	for v := range t.series[m] {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
	return vs
}

// Metrics returns m's averaged sample at v, if one exists.
func (t *Table) Metrics(m MapInfo, v fversion.Version) (Metrics, bool) {
	met, ok := t.series[m][v]
	return met, ok
}
