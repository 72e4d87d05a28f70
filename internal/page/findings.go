// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package page

import (
	"fmt"
	"strings"

	"github.com/co2stats/co2report/emissions"
	"github.com/dustin/go-humanize"
)

// span returns the range of years covered by t, such as "1990-2018".
func span(t *emissions.Table) string {
	if len(t.Years) == 0 {
		return "all years"
	}
	lo, hi := t.Years[0].Year, t.Years[0].Year
	for _, y := range t.Years[1:] {
		lo, hi = min(lo, y.Year), max(hi, y.Year)
	}
	if lo == hi {
		return fmt.Sprint(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// seriesFindings describes the ranked countries' per-year series.
func seriesFindings(t *emissions.Table, ranked []emissions.Group) []string {
	if len(ranked) == 0 {
		return nil
	}
	var out []string

	names := make([]string, 0, 3)
	for _, g := range ranked[:min(3, len(ranked))] {
		names = append(names, g.Key)
	}
	shown := "the largest emitting country"
	if len(ranked) > 1 {
		shown = fmt.Sprintf("the %d largest emitting countries", len(ranked))
	}
	lead := fmt.Sprintf("The chart shows the CO2 emissions of %s, from %s. %s is the largest emitter, with a total of %s",
		shown, span(t), names[0], humanize.CommafWithDigits(ranked[0].Total, 2))
	if len(names) > 1 {
		lead += ", followed by " + joinAnd(names[1:])
	}
	out = append(out, lead+".")

	var declining, withData int
	lo, hi := 0, 0
	for _, g := range ranked {
		r, ok := t.Lookup(g.Key)
		if !ok {
			continue
		}
		pts := r.Series(t.Years)
		if len(pts) < 2 {
			continue
		}
		withData++
		peak, down := emissions.Trend(pts)
		if !down {
			continue
		}
		declining++
		if lo == 0 || peak.Year < lo {
			lo = peak.Year
		}
		if peak.Year > hi {
			hi = peak.Year
		}
	}
	switch {
	case withData == 0:
	case withData == 1 && declining == 0:
		out = append(out, "This country's emissions are not below its peak in the latest year.")
	case declining == 0:
		out = append(out, fmt.Sprintf("None of these %d countries has emissions below its peak in the latest year.", withData))
	default:
		peaks := fmt.Sprint(lo)
		if hi != lo {
			peaks = fmt.Sprintf("%d-%d", lo, hi)
		}
		if withData == 1 {
			out = append(out, fmt.Sprintf("This country's emissions have declined from their peak (%s).", peaks))
		} else {
			out = append(out, fmt.Sprintf("Emissions have declined from their peak (%s) for %d of these %d countries.", peaks, declining, withData))
		}
	}
	return out
}

// shareFindings describes continent and hemisphere shares of total
// emissions.
func shareFindings(continents, hemispheres []emissions.Group) []string {
	var out []string
	cs := emissions.Shares(continents)
	for i, s := range cs {
		if i >= 3 {
			break
		}
		rank := "the largest emitter"
		if i > 0 {
			rank = "the " + humanize.Ordinal(i+1) + " largest emitter"
		}
		out = append(out, fmt.Sprintf("%s is %s, accounting for %.1f%% of total emissions.", s.Key, rank, s.Percent))
	}
	if len(cs) > 3 {
		var rest []string
		var pcts []string
		for _, s := range cs[3:] {
			rest = append(rest, s.Key)
			pcts = append(pcts, fmt.Sprintf("%.1f%%", s.Percent))
		}
		if len(rest) == 1 {
			out = append(out, fmt.Sprintf("%s accounts for the remaining %s of total emissions.", rest[0], pcts[0]))
		} else {
			out = append(out, fmt.Sprintf("%s account for the remaining %s of total emissions, respectively.", joinAnd(rest), joinAnd(pcts)))
		}
	}

	hs := emissions.Shares(hemispheres)
	if len(hs) > 0 {
		parts := make([]string, len(hs))
		for i, s := range hs {
			parts[i] = fmt.Sprintf("the %s (%.1f%%)", hemisphereName(s.Key), s.Percent)
		}
		if len(hs) == 1 {
			out = append(out, fmt.Sprintf("All emissions come from %s.", parts[0]))
		} else {
			out = append(out, fmt.Sprintf("By hemisphere, %s is responsible for the largest share of CO2 emissions, ahead of %s.", parts[0], joinAnd(parts[1:])))
		}
	}
	return out
}

func hemisphereName(key string) string {
	if strings.Contains(strings.ToLower(key), "hemisphere") {
		return key
	}
	return key + " Hemisphere"
}

// joinAnd joins items as an English list.
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
