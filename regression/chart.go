// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regression

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/mulark/visgression/fversion"
)

// ChartOptions controls SVG rendering.
type ChartOptions struct {
	Dir           string    // directory charts are written into
	Width, Height vg.Length // canvas size; zero means the defaults below
	YPercentile   float64   // percentile of all values used to cap the Y axis; zero means 0.98
}

const (
	defaultWidth  = 32 * vg.Centimeter
	defaultHeight = 16 * vg.Centimeter
)

// metricColumns fixes the set and order of plotted series: the total,
// each named sub-phase, and the derived residual.
var metricColumns = []struct {
	name  string
	value func(Metrics) float64
}{
	{"wholeUpdate", func(m Metrics) float64 { return m.WholeUpdate }},
	{"entityUpdate", func(m Metrics) float64 { return m.EntityUpdate }},
	{"circuitNetworkUpdate", func(m Metrics) float64 { return m.CircuitNetworkUpdate }},
	{"transportLinesUpdate", func(m Metrics) float64 { return m.TransportLinesUpdate }},
	{"fluidsUpdate", func(m Metrics) float64 { return m.FluidsUpdate }},
	{"electricNetworkUpdate", func(m Metrics) float64 { return m.ElectricNetworkUpdate }},
	{"logisticManagerUpdate", func(m Metrics) float64 { return m.LogisticManagerUpdate }},
	{"trains", func(m Metrics) float64 { return m.Trains }},
	{"trainPathFinder", func(m Metrics) float64 { return m.TrainPathFinder }},
	{"other", func(m Metrics) float64 { return m.Other() }},
}

// Chart renders a to an SVG file named after its label and returns the
// path written. The X axis is nominal: the dense version axis generated
// by seq over bounds, restricted to the versions the aggregate actually
// has, in order.
func Chart(a *Aggregate, seq fversion.Seq, bounds Bounds, opts ChartOptions) (string, error) {
	if len(a.Versions) == 0 {
		return "", fmt.Errorf("aggregate %q has no versions to chart", a.Label)
	}

	present := make(map[fversion.Version]bool, len(a.Versions))
	for _, v := range a.Versions {
		present[v] = true
	}
	var ticks []string
	for _, v := range seq.Range(bounds.Earliest, bounds.Latest) {
		if present[v] {
			ticks = append(ticks, v.String())
		}
	}
	if len(ticks) != len(a.Versions) {
		return "", fmt.Errorf("aggregate %q has versions outside the chart axis", a.Label)
	}

	pl := plot.New()
	pl.Title.Text = a.Label
	pl.X.Label.Text = "Factorio Version"
	pl.Y.Label.Text = "Average update time (ms)"

	var all []float64
	args := make([]interface{}, 0, 2*len(metricColumns))
	for _, col := range metricColumns {
		pts := make(plotter.XYs, len(a.Versions))
		for i := range a.Versions {
			y := col.value(a.Metrics[i])
			pts[i] = plotter.XY{X: float64(i), Y: y}
			all = append(all, y)
		}
		args = append(args, col.name, pts)
	}
	if err := plotutil.AddLinePoints(pl, args...); err != nil {
		return "", err
	}
	pl.NominalX(ticks...)
	pl.Legend.Top = true

	pl.X.Tick.Label.Rotation = -math.Pi / 6
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	// A single spiky version should not flatten the rest of the chart;
	// cap the Y axis near the bulk of the data.
	pctile := opts.YPercentile
	if pctile == 0 {
		pctile = 0.98
	}
	sort.Float64s(all)
	yCap := stats.Sample{Xs: all, Sorted: true}.Quantile(pctile) * 1.25
	if yCap > 0 && yCap < pl.Y.Max {
		pl.Y.Max = yCap
	}
	if pl.Y.Min > 0 {
		pl.Y.Min = 0
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0777); err != nil {
			return "", err
		}
	}
	file := filepath.Join(opts.Dir, fileBase(a.Label)+".svg")
	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	can := vgsvg.New(width, height)
	pl.Draw(draw.New(can))
	if _, err := can.WriteTo(f); err != nil {
		return "", err
	}
	return file, nil
}

// fileBase flattens a chart label into a safe file name.
func fileBase(label string) string {
	return strings.ReplaceAll(label, "/", "-per-")
}
