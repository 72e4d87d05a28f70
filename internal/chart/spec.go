// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart turns derived emission views into declarative chart
// descriptions and renders them as SVG.
package chart

import (
	"fmt"

	"github.com/co2stats/co2report/emissions"
)

// Kind selects how a Spec is drawn.
type Kind int

const (
	// Bar is a ranked bar chart, one bar per item.
	Bar Kind = iota

	// Choropleth is a world map with each country filled by its
	// item value on a continuous palette.
	Choropleth

	// LineGrid is a grid of line plots, one subplot per series.
	LineGrid

	// Pie shows each item as a share of the sum of all items.
	Pie
)

func (k Kind) String() string {
	switch k {
	case Bar:
		return "bar"
	case Choropleth:
		return "choropleth"
	case LineGrid:
		return "line grid"
	case Pie:
		return "pie"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Item is one labeled value of a Bar, Choropleth, or Pie chart.
type Item struct {
	Label string

	// Code is an optional secondary key (an ISO3 country code)
	// used to match map features.
	Code string

	Value float64
}

// A Series is one subplot of a LineGrid.
type Series struct {
	Name   string
	Points []emissions.Point
}

// Spec is a declarative description of one chart.
type Spec struct {
	Kind Kind

	Title          string
	XLabel, YLabel string

	// ValueLabel names the plotted quantity in legends.
	ValueLabel string

	// Palette names the continuous palette for value-colored
	// charts. See Palette.
	Palette string

	// Width and Height are the size of the chart in pixels. For
	// LineGrid, Height is the height of one row of subplots.
	Width, Height int

	// Columns is the number of subplot columns of a LineGrid.
	Columns int

	Items  []Item
	Series []Series
}

// Empty reports whether s has nothing to draw.
func (s *Spec) Empty() bool {
	switch s.Kind {
	case LineGrid:
		for _, se := range s.Series {
			if len(se.Points) > 0 {
				return false
			}
		}
		return true
	case Pie:
		for _, it := range s.Items {
			if it.Value > 0 {
				return false
			}
		}
		return true
	}
	return len(s.Items) == 0
}

// Options are the descriptive parts of a Spec.
type Options struct {
	Title          string
	XLabel, YLabel string
	ValueLabel     string
	Palette        string
	Width, Height  int
	Columns        int
}

var defaultSize = map[Kind][2]int{
	Bar:        {900, 500},
	Choropleth: {1000, 500},
	LineGrid:   {1000, 280},
	Pie:        {480, 480},
}

// A View is a derived view of a table: a list of groups and the table
// they were computed from.
type View struct {
	Groups []emissions.Group

	// Table is the source of per-country detail. It is required
	// for LineGrid and optional for Choropleth.
	Table *emissions.Table
}

// Build maps a view to a chart of the given kind.
//
// Bar and Choropleth plot each group's total. Pie plots each group's
// share, labeling it with its percentage. LineGrid plots the per-year
// series of the country named by each group, in group order.
func Build(kind Kind, v View, o Options) *Spec {
	s := &Spec{
		Kind:       kind,
		Title:      o.Title,
		XLabel:     o.XLabel,
		YLabel:     o.YLabel,
		ValueLabel: o.ValueLabel,
		Palette:    o.Palette,
		Width:      o.Width,
		Height:     o.Height,
		Columns:    o.Columns,
	}
	if s.Width <= 0 {
		s.Width = defaultSize[kind][0]
	}
	if s.Height <= 0 {
		s.Height = defaultSize[kind][1]
	}

	switch kind {
	case Bar:
		for _, g := range v.Groups {
			s.Items = append(s.Items, Item{Label: g.Key, Value: g.Total})
		}

	case Choropleth:
		for _, g := range v.Groups {
			it := Item{Label: g.Key, Value: g.Total}
			if r, ok := v.Table.Lookup(g.Key); ok {
				it.Code = r.Code
			}
			s.Items = append(s.Items, it)
		}

	case Pie:
		for _, sh := range emissions.Shares(v.Groups) {
			s.Items = append(s.Items, Item{
				Label: fmt.Sprintf("%s (%.1f%%)", sh.Key, sh.Percent),
				Value: sh.Total,
			})
		}

	case LineGrid:
		if s.Columns <= 0 {
			s.Columns = 2
		}
		for _, g := range v.Groups {
			r, ok := v.Table.Lookup(g.Key)
			if !ok {
				continue
			}
			s.Series = append(s.Series, Series{g.Key, r.Series(v.Table.Years)})
		}
	}
	return s
}
