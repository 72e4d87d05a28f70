// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emissions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/vec"
)

// Category is a categorical column a table can be grouped by.
type Category int

const (
	Country Category = iota
	Continent
	Hemisphere
)

func (c Category) String() string {
	switch c {
	case Country:
		return "Country"
	case Continent:
		return "Continent"
	case Hemisphere:
		return "Hemisphere"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory returns the Category named by column, ignoring case.
func ParseCategory(column string) (Category, error) {
	for _, c := range []Category{Country, Continent, Hemisphere} {
		if strings.EqualFold(column, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category column %q", column)
}

func (c Category) key(r *Record) string {
	switch c {
	case Continent:
		return r.Continent
	case Hemisphere:
		return r.Hemisphere
	}
	return r.Country
}

// Group is one row of a derived view: a category value and the sum
// of total emissions over the records with that value.
type Group struct {
	Key   string
	Total float64
}

// sumBy groups t's records by c in order of first appearance and
// sums their totals. Missing totals contribute zero.
func sumBy(t *Table, c Category) []Group {
	if t.Len() == 0 {
		return nil
	}
	var groups []Group
	index := make(map[string]int)
	for i := range t.Records {
		r := &t.Records[i]
		k := c.key(r)
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: k})
		}
		groups[gi].Total += r.Total.Or(0)
	}
	// Sort descending, keeping first-appearance order on ties.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total > groups[j].Total
	})
	return groups
}

// RankByTotal returns the n countries with the highest total
// emissions, in descending order. Records with the same country name
// are summed. Ties keep the order in which countries first appear in
// t. If n exceeds the number of countries, all countries are
// returned.
func RankByTotal(t *Table, n int) []Group {
	if n <= 0 {
		return nil
	}
	groups := sumBy(t, Country)
	if n < len(groups) {
		groups = groups[:n:n]
	}
	return groups
}

// SumByCategory returns the total emissions of every value of
// category c present in t, in descending order. Every value appears
// exactly once, including values whose sum is zero.
func SumByCategory(t *Table, c Category) []Group {
	return sumBy(t, c)
}

// RequireNonEmpty returns gs, or an error wrapping ErrEmptyAggregate
// if gs has no rows.
func RequireNonEmpty(name string, gs []Group) ([]Group, error) {
	if len(gs) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyAggregate)
	}
	return gs, nil
}

// GrandTotal returns the sum of all valid totals in t.
func GrandTotal(t *Table) float64 {
	if t.Len() == 0 {
		return 0
	}
	totals := make([]float64, 0, len(t.Records))
	for i := range t.Records {
		totals = append(totals, t.Records[i].Total.Or(0))
	}
	return vec.Sum(totals)
}

// Share is a group together with its percentage of the sum of all
// groups in a view.
type Share struct {
	Group
	Percent float64
}

// Shares returns each group's percentage of the sum of gs. If that
// sum is zero, every percentage is zero.
func Shares(gs []Group) []Share {
	if len(gs) == 0 {
		return nil
	}
	totals := make([]float64, len(gs))
	for i, g := range gs {
		totals[i] = g.Total
	}
	sum := vec.Sum(totals)

	shares := make([]Share, len(gs))
	for i, g := range gs {
		shares[i].Group = g
		if sum != 0 {
			shares[i].Percent = 100 * g.Total / sum
		}
	}
	return shares
}

// Trend summarizes a series: its peak point and whether the last
// point is below that peak. A series with fewer than two points is
// never declining.
func Trend(pts []Point) (peak Point, declining bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	peak = pts[0]
	for _, p := range pts[1:] {
		if p.Value > peak.Value {
			peak = p
		}
	}
	last := pts[len(pts)-1]
	return peak, last.Value < peak.Value
}
