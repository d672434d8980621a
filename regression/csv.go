// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regression

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"factorio_version",
	"wholeUpdate",
	"circuitNetworkUpdate",
	"transportLinesUpdate",
	"fluidsUpdate",
	"entityUpdate",
	"electricNetworkUpdate",
	"logisticManagerUpdate",
	"trains",
	"trainPathFinder",
	"other",
}

// ToCsv writes the aggregated series in CSV form, one line per version,
// with the derived "other" column appended.
func (a *Aggregate) ToCsv(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, v := range a.Versions {
		m := a.Metrics[i]
		rec := []string{
			v.String(),
			ftoa(m.WholeUpdate),
			ftoa(m.CircuitNetworkUpdate),
			ftoa(m.TransportLinesUpdate),
			ftoa(m.FluidsUpdate),
			ftoa(m.EntityUpdate),
			ftoa(m.ElectricNetworkUpdate),
			ftoa(m.LogisticManagerUpdate),
			ftoa(m.Trains),
			ftoa(m.TrainPathFinder),
			ftoa(m.Other()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
