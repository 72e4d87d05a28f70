// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/co2stats/co2report/emissions"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = &emissions.Table{
	Years: []emissions.Year{{Column: "1990", Year: 1990}, {Column: "2000", Year: 2000}, {Column: "2010", Year: 2010}},
	Records: []emissions.Record{
		{Code: "AAA", Country: "Alpha", Continent: "X", Hemisphere: "Northern",
			Values: []emissions.Metric{emissions.Some(1), emissions.Some(3), emissions.Some(2)},
			Total:  emissions.Some(6)},
		{Code: "BBB", Country: "Beta", Continent: "X", Hemisphere: "Southern",
			Values: []emissions.Metric{emissions.Some(1), {}, emissions.Some(1)},
			Total:  emissions.Some(2)},
		{Code: "CCC", Country: "Gamma", Continent: "Y", Hemisphere: "Northern",
			Values: []emissions.Metric{{}, {}, {}},
			Total:  emissions.Some(1)},
	},
}

func TestBuild(t *testing.T) {
	ranked := emissions.RankByTotal(testTable, 3)

	bar := Build(Bar, View{Groups: ranked}, Options{Title: "Top"})
	want := []Item{{Label: "Alpha", Value: 6}, {Label: "Beta", Value: 2}, {Label: "Gamma", Value: 1}}
	if diff := cmp.Diff(want, bar.Items); diff != "" {
		t.Errorf("bar items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 900, bar.Width)

	m := Build(Choropleth, View{Groups: ranked, Table: testTable}, Options{})
	assert.Equal(t, "AAA", m.Items[0].Code)

	pie := Build(Pie, View{Groups: emissions.SumByCategory(testTable, emissions.Continent)}, Options{})
	want = []Item{{Label: "X (88.9%)", Value: 8}, {Label: "Y (11.1%)", Value: 1}}
	if diff := cmp.Diff(want, pie.Items); diff != "" {
		t.Errorf("pie items mismatch (-want +got):\n%s", diff)
	}

	grid := Build(LineGrid, View{Groups: ranked, Table: testTable}, Options{})
	assert.Equal(t, 2, grid.Columns)
	wantSeries := []Series{
		{"Alpha", []emissions.Point{{Year: 1990, Value: 1}, {Year: 2000, Value: 3}, {Year: 2010, Value: 2}}},
		{"Beta", []emissions.Point{{Year: 1990, Value: 1}, {Year: 2010, Value: 1}}},
		{"Gamma", nil},
	}
	if diff := cmp.Diff(wantSeries, grid.Series); diff != "" {
		t.Errorf("grid series mismatch (-want +got):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	for _, test := range []struct {
		spec  Spec
		empty bool
	}{
		{Spec{Kind: Bar}, true},
		{Spec{Kind: Bar, Items: []Item{{Label: "a"}}}, false},
		{Spec{Kind: Choropleth}, true},
		{Spec{Kind: Pie, Items: []Item{{Label: "a"}, {Label: "b"}}}, true},
		{Spec{Kind: Pie, Items: []Item{{Label: "a", Value: 1}}}, false},
		{Spec{Kind: LineGrid, Series: []Series{{Name: "a"}}}, true},
		{Spec{Kind: LineGrid, Series: []Series{{Name: "a", Points: []emissions.Point{{Year: 1990, Value: 1}}}}}, false},
	} {
		assert.Equal(t, test.empty, test.spec.Empty(), "%v %+v", test.spec.Kind, test.spec)
	}
}

func TestRenderEmptyViews(t *testing.T) {
	r := NewRenderer(nil, nil)
	empty := &emissions.Table{}
	views := []struct {
		kind Kind
		view View
	}{
		{Bar, View{Groups: emissions.RankByTotal(empty, 10)}},
		{Choropleth, View{Groups: emissions.SumByCategory(empty, emissions.Country), Table: empty}},
		{LineGrid, View{Groups: emissions.RankByTotal(empty, 10), Table: empty}},
		{Pie, View{Groups: emissions.SumByCategory(empty, emissions.Continent)}},
		{Pie, View{Groups: []emissions.Group{{Key: "X"}, {Key: "Y"}}}},
	}
	for _, v := range views {
		var buf bytes.Buffer
		err := r.Render(&buf, Build(v.kind, v.view, Options{Title: "Nothing"}))
		require.NoError(t, err, "%v", v.kind)
		assert.Contains(t, buf.String(), "No data")
		assert.Contains(t, buf.String(), "Nothing")
	}
}

type failSink struct{ err error }

func (f failSink) Render(w io.Writer, s *Spec) error {
	io.WriteString(w, "partial")
	if f.err != nil {
		return f.err
	}
	panic("boom")
}

func TestRenderSinkFailure(t *testing.T) {
	r := NewRenderer(nil, nil)
	spec := Build(Bar, View{Groups: []emissions.Group{{Key: "A", Total: 1}}}, Options{Title: "T"})

	r.SetSink(Bar, failSink{errors.New("rejected")})
	var buf bytes.Buffer
	err := r.Render(&buf, spec)
	assert.ErrorIs(t, err, ErrRenderSink)
	assert.Contains(t, err.Error(), "rejected")
	assert.Zero(t, buf.Len(), "failed render wrote output")

	r.SetSink(Bar, failSink{})
	err = r.Render(&buf, spec)
	assert.ErrorIs(t, err, ErrRenderSink)
	assert.Contains(t, err.Error(), "boom")
	assert.Zero(t, buf.Len(), "failed render wrote output")
}

func TestRenderBarAndPie(t *testing.T) {
	r := NewRenderer(nil, nil)
	for _, spec := range []*Spec{
		Build(Bar, View{Groups: emissions.RankByTotal(testTable, 3)}, Options{Title: "Top", YLabel: "Total"}),
		Build(Pie, View{Groups: emissions.SumByCategory(testTable, emissions.Hemisphere)}, Options{Title: "Hemispheres"}),
	} {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, spec), "%v", spec.Kind)
		assert.Contains(t, buf.String(), "<svg", "%v", spec.Kind)
	}
}

func TestRenderBarRange(t *testing.T) {
	r := NewRenderer(nil, nil)
	for _, test := range []struct {
		name   string
		groups []emissions.Group
	}{
		{"one bar", []emissions.Group{{Key: "A", Total: 5}}},
		{"equal bars", []emissions.Group{{Key: "A", Total: 5}, {Key: "B", Total: 5}}},
		{"zero bars", []emissions.Group{{Key: "A"}, {Key: "B"}}},
		{"unequal bars", []emissions.Group{{Key: "A", Total: 50}, {Key: "B", Total: 40}}},
	} {
		t.Run(test.name, func(t *testing.T) {
			for _, kind := range []Kind{Bar, Pie} {
				var buf bytes.Buffer
				spec := Build(kind, View{Groups: test.groups}, Options{Title: "Top"})
				require.NoError(t, r.Render(&buf, spec), "%v", kind)
				assert.Contains(t, buf.String(), "<svg", "%v", kind)
				if kind == Bar {
					assert.Contains(t, buf.String(), ">0.00</text>", "Y axis starts at 0")
				}
			}
		})
	}
}

func TestRenderGrid(t *testing.T) {
	r := NewRenderer(nil, nil)
	spec := Build(LineGrid, View{Groups: emissions.RankByTotal(testTable, 3), Table: testTable},
		Options{Title: "Series", XLabel: "Year", YLabel: "CO2 Emissions"})
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, spec))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderGridSmall(t *testing.T) {
	one := &emissions.Table{
		Years: []emissions.Year{{Column: "1990", Year: 1990}},
		Records: []emissions.Record{
			{Code: "AAA", Country: "Alpha", Continent: "X", Hemisphere: "Northern",
				Values: []emissions.Metric{emissions.Some(4)}, Total: emissions.Some(4)},
		},
	}
	r := NewRenderer(nil, nil)
	for _, test := range []struct {
		name  string
		table *emissions.Table
		n     int
	}{
		{"one country one year", one, 10},
		{"one series", testTable, 1},
		{"two series", testTable, 2},
	} {
		t.Run(test.name, func(t *testing.T) {
			spec := Build(LineGrid, View{Groups: emissions.RankByTotal(test.table, test.n), Table: test.table},
				Options{Title: "Series"})
			require.False(t, spec.Empty())
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, spec))
			assert.Contains(t, buf.String(), "<svg")
		})
	}

	// Constant series, including all zeros.
	for _, v := range []float64{0, 7} {
		spec := &Spec{Kind: LineGrid, Width: 900, Height: 300, Columns: 2, Series: []Series{
			{"A", []emissions.Point{{Year: 1990, Value: v}, {Year: 2000, Value: v}}},
			{"B", []emissions.Point{{Year: 1990, Value: v}}},
		}}
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, spec), "value %v", v)
		assert.Contains(t, buf.String(), "<svg")
	}
}

func TestSeriesTable(t *testing.T) {
	tab, names := seriesTable([]Series{
		{"A", []emissions.Point{{Year: 1990, Value: 1}, {Year: 2000, Value: 2}}},
		{"B", nil},
		{"C", []emissions.Point{{Year: 1990, Value: 3}}},
	})
	assert.Equal(t, []string{"A", "C"}, names)
	assert.Equal(t, []int{0, 0, 1}, tab.MustColumn("series"))
	assert.Equal(t, []int{1990, 2000, 1990}, tab.MustColumn("year"))
	assert.Equal(t, []float64{1, 2, 3}, tab.MustColumn("value"))
}

const testWorld = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Alpha"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,0]]]}},
    {"type": "Feature", "properties": {"ADMIN": "Somewhere", "ISO_A3": "BBB"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[20,0],[30,0],[30,10],[20,0]]]]}},
    {"type": "Feature", "properties": {"name": "Nowhere"},
     "geometry": {"type": "Polygon", "coordinates": [[[40,0],[50,0],[50,10],[40,0]]]}}
  ]
}`

func TestRenderChoropleth(t *testing.T) {
	world, err := ReadWorld([]byte(testWorld))
	require.NoError(t, err)
	require.Equal(t, 3, world.Len())

	spec := Build(Choropleth, View{Groups: emissions.SumByCategory(testTable, emissions.Country), Table: testTable},
		Options{Title: "Map", ValueLabel: "CO2 Emissions"})

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(nil, world).Render(&buf, spec))
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "<path"))
	assert.Contains(t, out, "Alpha: 6.00")
	assert.Contains(t, out, "Beta: 2.00", "match by ISO3 code")
	assert.Contains(t, out, "fill:"+noDataFill)
	assert.Contains(t, out, "fill:"+hexColor(Magma.Map(1)), "largest value takes the top of the palette")

	// Without shapes, every country gets a tile.
	buf.Reset()
	require.NoError(t, NewRenderer(nil, nil).Render(&buf, spec))
	out = buf.String()
	assert.Equal(t, 0, strings.Count(out, "<path"))
	for _, code := range []string{"AAA", "BBB", "CCC"} {
		assert.Contains(t, out, code)
	}
}

func TestPalette(t *testing.T) {
	assert.Equal(t, Magma, Palette(""))
	assert.Equal(t, Viridis, Palette("Viridis"))
	assert.Equal(t, "#000004", hexColor(Magma.Map(0)))
	assert.Equal(t, "#fde725", hexColor(Viridis.Map(1)))
}
