// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// gridSink draws LineGrid charts with go-gg, faceting one subplot
// per series.
type gridSink struct{}

func (gridSink) Render(w io.Writer, s *Spec) error {
	tab, names := seriesTable(s.Series)

	plot := gg.NewPlot(tab)

	// Facet on the series index rather than the name so subplots
	// keep series order instead of sorting by name. FacetWrap
	// cannot split scales, so all subplots share one Y scale.
	plot.Add(gg.FacetWrap{
		Col:  "series",
		Cols: s.Columns,
		Labeler: func(v interface{}) string {
			if i, ok := v.(int); ok && i < len(names) {
				return names[i]
			}
			return fmt.Sprint(v)
		},
	})

	// Always show Y=0, and never let a scale collapse to a point.
	var years, values []float64
	for _, se := range s.Series {
		for _, p := range se.Points {
			years = append(years, float64(p.Year))
			values = append(values, p.Value)
		}
	}
	plot.SetScale("x", gridScale(years, false))
	plot.SetScale("y", gridScale(values, true))

	plot.Add(gg.LayerLines{X: "year", Y: "value"})
	plot.Add(gg.LayerPoints{X: "year", Y: "value"})

	if s.XLabel != "" {
		plot.Add(gg.AxisLabel("x", s.XLabel))
	}
	if s.YLabel != "" {
		plot.Add(gg.AxisLabel("y", s.YLabel))
	}
	if s.Title != "" {
		plot.Add(gg.Title(s.Title))
	}

	cols := s.Columns
	if cols <= 0 {
		cols = 2
	}
	nrows := (len(names) + cols - 1) / cols
	return plot.WriteSVG(w, s.Width, s.Height*nrows)
}

// gridScale returns a linear scale covering xs, and 0 if withZero is
// set. If that range is a single value, it is widened by 1 on each
// side.
func gridScale(xs []float64, withZero bool) gg.ContinuousScaler {
	sc := gg.NewLinearScaler()
	if len(xs) == 0 {
		return sc
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if withZero {
		lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return sc.Include(lo).Include(hi)
}

// seriesTable flattens series into a table with "series", "year", and
// "value" columns. Series with no points are dropped. It returns the
// names of the remaining series, indexed by the "series" column.
func seriesTable(series []Series) (*table.Table, []string) {
	var (
		idx    []int
		years  []int
		values []float64
		names  []string
	)
	for _, se := range series {
		if len(se.Points) == 0 {
			continue
		}
		i := len(names)
		names = append(names, se.Name)
		for _, p := range se.Points {
			idx = append(idx, i)
			years = append(years, p.Year)
			values = append(values, p.Value)
		}
	}
	tab := new(table.Builder).
		Add("series", idx).
		Add("year", years).
		Add("value", values).
		Done()
	return tab, names
}
