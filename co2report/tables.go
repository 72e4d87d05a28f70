// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/aclements/go-moremath/stats"
	"github.com/co2stats/co2report/emissions"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// writeTables prints the views behind the report's charts as text
// tables. Unlike the page, it fails on a dataset with no rows.
func writeTables(w io.Writer, in inputs) error {
	cfg, err := loadConfig(in)
	if err != nil {
		return err
	}
	t, err := emissions.Load(in.data)
	if err != nil {
		return err
	}

	rows, cols := t.Shape()
	fmt.Fprintf(w, "Dataset shape: (%d, %d)\n", rows, cols)
	fmt.Fprintf(w, "Total emissions: %s\n\n", humanize.CommafWithDigits(emissions.GrandTotal(t), 2))

	top, err := emissions.RequireNonEmpty("top countries", emissions.RankByTotal(t, cfg.TopN))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Top %d countries\n", len(top))
	printGroups(w, "Country", top)

	for _, c := range []emissions.Category{emissions.Continent, emissions.Hemisphere} {
		fmt.Fprintf(w, "\nBy %s\n", c)
		printGroups(w, c.String(), emissions.SumByCategory(t, c))
	}

	if len(t.Years) > 0 {
		fmt.Fprintf(w, "\nPer year\n")
		printYears(w, t)
	}
	return nil
}

// printGroups prints gs with each group's share of their sum.
func printGroups(w io.Writer, key string, gs []emissions.Group) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"#", key, "Total", "Share"})
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, s := range emissions.Shares(gs) {
		tw.Append([]string{
			humanize.Ordinal(i + 1),
			s.Key,
			humanize.CommafWithDigits(s.Total, 2),
			fmt.Sprintf("%.1f%%", s.Percent),
		})
	}
	tw.Render()
}

// printYears prints summary statistics of each year column over the
// countries that report it.
func printYears(w io.Writer, t *emissions.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Year", "Countries", "Mean", "Min", "Max"})
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	for j, y := range t.Years {
		var xs []float64
		for i := range t.Records {
			if m := t.Records[i].Values[j]; m.Valid {
				xs = append(xs, m.Value)
			}
		}
		if len(xs) == 0 {
			tw.Append([]string{fmt.Sprint(y.Year), "0", "NA", "NA", "NA"})
			continue
		}
		lo, hi := stats.Bounds(xs)
		tw.Append([]string{
			fmt.Sprint(y.Year),
			fmt.Sprint(len(xs)),
			humanize.CommafWithDigits(stats.Mean(xs), 2),
			humanize.CommafWithDigits(lo, 2),
			humanize.CommafWithDigits(hi, 2),
		})
	}
	tw.Render()
}
