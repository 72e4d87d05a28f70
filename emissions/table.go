// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emissions reads countrywise CO2 emission statistics and
// derives the summary views plotted by co2report.
//
// A dataset is a CSV file with one row per country. Each row carries
// identity columns (ISO3, Country, Continent, Hemisphere), one column
// per year holding metric tons of CO2e per capita, and optionally a
// precomputed "Total CO2 Emissions" column.
package emissions

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDataUnavailable indicates that a dataset could not be
	// read or parsed. It is fatal to a report run.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrEmptyAggregate indicates that a derived view has no rows.
	ErrEmptyAggregate = errors.New("empty aggregate")
)

// Metric is a numeric cell that may be missing.
//
// A missing cell has Valid == false. Value is never NaN when Valid
// is set.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a valid Metric holding v. If v is NaN, it returns the
// missing Metric.
func Some(v float64) Metric {
	if math.IsNaN(v) {
		return Metric{}
	}
	return Metric{v, true}
}

// Or returns m's value, or def if m is missing.
func (m Metric) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

func (m Metric) String() string {
	if !m.Valid {
		return "NA"
	}
	return fmt.Sprint(m.Value)
}

// Year identifies one per-year metric column.
type Year struct {
	// Column is the header of this column, exactly as written in
	// the dataset.
	Column string

	// Year is the calendar year parsed from Column.
	Year int
}

// Record is one row of the dataset.
type Record struct {
	Code       string
	Country    string
	Continent  string
	Hemisphere string

	// Values holds one metric per year column. Values[i]
	// corresponds to Table.Years[i].
	Values []Metric

	// Total is the row's total emissions. It is read from the
	// dataset's total column, or if there is none, it is the sum of
	// the valid Values.
	Total Metric

	// Extra holds cells from columns the loader does not
	// interpret, in Table.Extra order.
	Extra []string
}

// Point is one (year, value) pair of a country's series.
type Point struct {
	Year  int
	Value float64
}

// Series returns r's valid per-year values as points in column
// order. Missing years are omitted.
func (r *Record) Series(years []Year) []Point {
	var pts []Point
	for i, m := range r.Values {
		if !m.Valid || i >= len(years) {
			continue
		}
		pts = append(pts, Point{years[i].Year, m.Value})
	}
	return pts
}

// Table is an in-memory dataset. A Table is not modified after it is
// loaded.
type Table struct {
	// Columns is the header row of the dataset, in file order.
	Columns []string

	// Years lists the year columns in file order.
	Years []Year

	// Extra lists the headers of uninterpreted columns.
	Extra []string

	// TotalColumn is the header of the precomputed total column,
	// or "" if the dataset has none and totals were computed.
	TotalColumn string

	Records []Record

	// layout locates each of Columns in a Record. It is nil for
	// tables not built by Read.
	layout []colRef
}

// Shape returns the number of rows and columns of the dataset.
func (t *Table) Shape() (rows, cols int) {
	if t == nil {
		return 0, 0
	}
	return len(t.Records), len(t.Columns)
}

// Len returns the number of records in t.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Lookup returns the first record for country.
func (t *Table) Lookup(country string) (*Record, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Records {
		if t.Records[i].Country == country {
			return &t.Records[i], true
		}
	}
	return nil, false
}

// Row returns the cells of record i in Columns order, formatting
// metrics with format. It is used to dump the raw table.
func (t *Table) Row(i int, format func(Metric) string) []string {
	r := &t.Records[i]
	layout := t.layout
	if layout == nil {
		layout, _, _, _ = classify(t.Columns)
	}
	row := make([]string, len(layout))
	for j, ref := range layout {
		switch ref.id {
		case colCode:
			row[j] = r.Code
		case colCountry:
			row[j] = r.Country
		case colContinent:
			row[j] = r.Continent
		case colHemisphere:
			row[j] = r.Hemisphere
		case colTotal:
			row[j] = format(r.Total)
		case colYear:
			if ref.index < len(r.Values) {
				row[j] = format(r.Values[ref.index])
			}
		case colOther:
			if ref.index < len(r.Extra) {
				row[j] = r.Extra[ref.index]
			}
		}
	}
	return row
}
