// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// barSink draws Bar charts with go-chart. Bars are colored by value
// on the Spec's palette.
type barSink struct{}

func (barSink) Render(w io.Writer, s *Spec) error {
	pal, sc := Palette(s.Palette), valueScale(s.Items)
	bars := make([]gochart.Value, len(s.Items))
	var lo, hi float64
	for i, it := range s.Items {
		c := drawingColor(colorAt(pal, sc, it.Value))
		bars[i] = gochart.Value{
			Label: it.Label,
			Value: it.Value,
			Style: gochart.Style{FillColor: c, StrokeColor: c},
		}
		lo, hi = math.Min(lo, it.Value), math.Max(hi, it.Value)
	}

	bw, spacing := barLayout(s.Width, len(bars))
	bc := gochart.BarChart{
		Title:  s.Title,
		Width:  s.Width,
		Height: s.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth:   bw,
		BarSpacing: spacing,
		YAxis: gochart.YAxis{
			Name: s.YLabel,
		},
		Bars: bars,
	}
	// The axis always includes 0 and never has zero extent.
	if lo == hi {
		hi = lo + 1
	}
	bc.YAxis.Range = &gochart.ContinuousRange{Min: lo, Max: hi}
	return bc.Render(gochart.SVG, w)
}

// barLayout splits the plot width between n bars and the gaps
// between them, leaving room for the Y axis.
func barLayout(width, n int) (bw, spacing int) {
	if n == 0 {
		return 0, 0
	}
	usable := width - 120
	bw = 2 * usable / (3*n - 1)
	if bw > 60 {
		bw = 60
	}
	if bw < 4 {
		bw = 4
	}
	return bw, bw / 2
}

// pieSink draws Pie charts with go-chart. Items with non-positive
// values are left out.
type pieSink struct{}

func (pieSink) Render(w io.Writer, s *Spec) error {
	var values []gochart.Value
	for i, it := range s.Items {
		if it.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: it.Label,
			Value: it.Value,
			Style: gochart.Style{
				FillColor:   pieColors[i%len(pieColors)],
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	pc := gochart.PieChart{
		Title:  s.Title,
		Width:  s.Width,
		Height: s.Height,
		Values: values,
	}
	return pc.Render(gochart.SVG, w)
}

// pieColors is the seaborn "deep" qualitative palette.
var pieColors = []drawing.Color{
	{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
	{R: 0xdd, G: 0x84, B: 0x52, A: 0xff},
	{R: 0x55, G: 0xa8, B: 0x68, A: 0xff},
	{R: 0xc4, G: 0x4e, B: 0x52, A: 0xff},
	{R: 0x81, G: 0x72, B: 0xb3, A: 0xff},
	{R: 0x93, G: 0x78, B: 0x60, A: 0xff},
	{R: 0xda, G: 0x8b, B: 0xc3, A: 0xff},
	{R: 0x8c, G: 0x8c, B: 0x8c, A: 0xff},
}
