// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emissions

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type identity int

const (
	colOther identity = iota
	colCode
	colCountry
	colContinent
	colHemisphere
	colTotal
	colYear
)

func identityOf(col string) identity {
	switch strings.ToLower(strings.TrimSpace(col)) {
	case "iso3", "iso", "code", "country code":
		return colCode
	case "country":
		return colCountry
	case "continent":
		return colContinent
	case "hemisphere":
		return colHemisphere
	}
	if strings.Contains(strings.ToLower(col), "total") {
		return colTotal
	}
	return colOther
}

var yearRe = regexp.MustCompile(`^(?:.*\()?((?:19|20)\d\d)\)?$`)

// yearOf returns the year named by a year column header such as
// "Metric tons of CO2e per capita (1990)" or "1990".
func yearOf(col string) (int, bool) {
	m := yearRe.FindStringSubmatch(strings.TrimSpace(col))
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	return y, err == nil
}

// Load reads the dataset at path. Any failure is reported as an
// error wrapping ErrDataUnavailable.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a CSV dataset from r. The first line must be a header
// naming at least the Country, Continent, and Hemisphere columns.
//
// Cells of year and total columns may be empty or one of "NA",
// "NaN", "N/A", or "null", all of which are missing values. Any other
// non-numeric metric cell is an error. Malformed rows are not
// skipped: the whole read fails.
//
// If the dataset has a total column, a missing total stays missing.
// Otherwise each row's total is the sum of its valid year values.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrDataUnavailable)
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	header := append([]string(nil), records[0]...)
	t := &Table{Columns: header}
	t.layout, t.Years, t.Extra, t.TotalColumn = classify(header)

	found := map[identity]bool{}
	for _, ref := range t.layout {
		found[ref.id] = true
	}
	for _, req := range []struct {
		id   identity
		name string
	}{{colCountry, "Country"}, {colContinent, "Continent"}, {colHemisphere, "Hemisphere"}} {
		if !found[req.id] {
			return nil, fmt.Errorf("%w: no %s column", ErrDataUnavailable, req.name)
		}
	}

	body := records[1:]
	var metrics [][]Metric
	if len(body) > 0 {
		metrics, err = readMetrics(records, t.layout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
	}

	t.Records = make([]Record, len(body))
	for i, row := range body {
		rec := &t.Records[i]
		rec.Values = make([]Metric, len(t.Years))
		if len(t.Extra) > 0 {
			rec.Extra = make([]string, len(t.Extra))
		}
		for j, ref := range t.layout {
			switch ref.id {
			case colCode:
				rec.Code = strings.TrimSpace(row[j])
			case colCountry:
				rec.Country = strings.TrimSpace(row[j])
			case colContinent:
				rec.Continent = strings.TrimSpace(row[j])
			case colHemisphere:
				rec.Hemisphere = strings.TrimSpace(row[j])
			case colYear:
				rec.Values[ref.index] = metrics[j][i]
			case colTotal:
				rec.Total = metrics[j][i]
			case colOther:
				rec.Extra[ref.index] = row[j]
			}
		}
		if t.TotalColumn == "" {
			rec.Total = sumMetrics(rec.Values)
		}
	}
	return t, nil
}

// A colRef locates the value of one dataset column in a Record.
type colRef struct {
	id identity

	// index is the position in Record.Values for colYear and in
	// Record.Extra for colOther.
	index int
}

// classify assigns each column of header its role. The first column
// with a given identity or total role wins; later ones are extra.
func classify(header []string) (layout []colRef, years []Year, extra []string, total string) {
	layout = make([]colRef, len(header))
	seen := map[identity]bool{}
	for i, name := range header {
		if y, ok := yearOf(name); ok {
			layout[i] = colRef{colYear, len(years)}
			years = append(years, Year{name, y})
			continue
		}
		id := identityOf(name)
		if id == colOther || seen[id] {
			layout[i] = colRef{colOther, len(extra)}
			extra = append(extra, name)
			continue
		}
		seen[id] = true
		layout[i] = colRef{id: id}
		if id == colTotal {
			total = name
		}
	}
	return layout, years, extra, total
}

// missingValues are the cells the frame loader reads as NaN.
var missingValues = []string{"", "NA", "NaN", "N/A", "null", "<nil>"}

// readMetrics parses the year and total columns of records, which
// include the header row, as float columns. The result is indexed by
// column position then row. Entries for other columns are nil.
func readMetrics(records [][]string, layout []colRef) ([][]Metric, error) {
	// Name columns by position so empty or repeated headers keep
	// their own types.
	names := make([]string, len(layout))
	types := map[string]series.Type{}
	for j, ref := range layout {
		names[j] = fmt.Sprintf("c%d", j)
		if ref.id == colYear || ref.id == colTotal {
			types[names[j]] = series.Float
		}
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.Names(names...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(missingValues))
	if df.Err != nil {
		return nil, df.Err
	}

	out := make([][]Metric, len(layout))
	for j, ref := range layout {
		if ref.id != colYear && ref.id != colTotal {
			continue
		}
		vals := df.Col(names[j]).Float()
		out[j] = make([]Metric, len(vals))
		for i, v := range vals {
			m, err := metricOf(v, records[i+1][j])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i+2, records[0][j], err)
			}
			out[j][i] = m
		}
	}
	return out, nil
}

// metricOf returns the metric for a cell the frame parsed as v from
// raw. The frame reads both missing markers and unparsable cells as
// NaN, so those are told apart by raw.
func metricOf(v float64, raw string) (Metric, error) {
	switch {
	case math.IsInf(v, 0):
		return Metric{}, fmt.Errorf("non-finite value %q", raw)
	case !math.IsNaN(v):
		return Some(v), nil
	}
	return parseMetric(raw)
}

func parseMetric(s string) (Metric, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "n/a", "null", "<nil>":
		return Metric{}, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return Metric{}, err
	}
	if math.IsInf(v, 0) {
		return Metric{}, fmt.Errorf("non-finite value %q", s)
	}
	return Some(v), nil
}

// sumMetrics returns the sum of the valid metrics in ms, or the
// missing Metric if none is valid.
func sumMetrics(ms []Metric) Metric {
	var sum Metric
	for _, m := range ms {
		if m.Valid {
			sum.Value += m.Value
			sum.Valid = true
		}
	}
	return sum
}
