// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package page

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/co2stats/co2report/emissions"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `ISO3,Country,Continent,Hemisphere,Metric tons of CO2e per capita (1990),Metric tons of CO2e per capita (2000),Total CO2 Emissions
USA,United States,North America,Northern,20,15,35
AUS,Australia,Oceania,Southern,10,12,22
IND,India,Asia,Northern,1,2,3
`

func readTable(t *testing.T, src string) *emissions.Table {
	t.Helper()
	tab, err := emissions.Read(strings.NewReader(src))
	require.NoError(t, err)
	return tab
}

// testConfig is the default config without an intro image.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Image = ""
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Countrywise Production-Based CO2 Emissions", cfg.Title)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 10, cfg.GridN)
	assert.Equal(t, 2, cfg.GridColumns)
	assert.Equal(t, "magma", cfg.Palette)
	assert.True(t, cfg.HideFooter)
	assert.Len(t, cfg.Glossary, 11)
	assert.NoError(t, cfg.validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o666))
		return path
	}

	cfg, err := LoadConfig(write("ok.yaml", "title: Other\ntop_n: 5\nnotes:\n  pies: [\"static remark\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, "Other", cfg.Title)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, []string{"static remark"}, cfg.Notes.Pies)
	// Unset fields keep their defaults.
	assert.Equal(t, 10, cfg.GridN)
	assert.Equal(t, DefaultConfig().Captions, cfg.Captions)

	for name, body := range map[string]string{
		"unknown.yaml":  "titel: typo\n",
		"negative.yaml": "top_n: -1\n",
		"caption.yaml":  "captions:\n  bar: \"Top {{.N\"\n",
		"syntax.yaml":   "title: [\n",
	} {
		_, err := LoadConfig(write(name, body))
		assert.Error(t, err, name)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCaption(t *testing.T) {
	data := CaptionData{N: 7, Span: "1990-2018"}
	assert.Equal(t, "Top 7 Countries", caption("Top {{.N}} Countries", data))
	assert.Equal(t, "Emissions (1990-2018)", caption("Emissions ({{.Span}})", data))
	assert.Equal(t, "plain", caption("plain", data))
}

func TestMarkdown(t *testing.T) {
	h, err := markdown("Some **bold** text<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, string(h), "<strong>bold</strong>")
	assert.NotContains(t, string(h), "<script>")

	h, err = bullets([]string{"one", "two `code`"})
	require.NoError(t, err)
	assert.Contains(t, string(h), "<li>one</li>")
	assert.Contains(t, string(h), "<code>code</code>")

	h, err = bullets(nil)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestSpan(t *testing.T) {
	assert.Equal(t, "1990-2000", span(readTable(t, testCSV)))
	assert.Equal(t, "all years", span(&emissions.Table{}))
	assert.Equal(t, "2010", span(&emissions.Table{Years: []emissions.Year{{Column: "x (2010)", Year: 2010}}}))
}

func TestJoinAnd(t *testing.T) {
	assert.Equal(t, "", joinAnd(nil))
	assert.Equal(t, "a", joinAnd([]string{"a"}))
	assert.Equal(t, "a and b", joinAnd([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", joinAnd([]string{"a", "b", "c"}))
}

func TestFindings(t *testing.T) {
	tab := readTable(t, testCSV)
	ranked := emissions.RankByTotal(tab, 10)

	assert.Equal(t, []string{
		"The chart shows the CO2 emissions of the 3 largest emitting countries, from 1990-2000. United States is the largest emitter, with a total of 35, followed by Australia and India.",
		"Emissions have declined from their peak (1990) for 1 of these 3 countries.",
	}, seriesFindings(tab, ranked))
	assert.Nil(t, seriesFindings(tab, nil))

	continents := emissions.SumByCategory(tab, emissions.Continent)
	hemispheres := emissions.SumByCategory(tab, emissions.Hemisphere)
	assert.Equal(t, []string{
		"North America is the largest emitter, accounting for 58.3% of total emissions.",
		"Oceania is the 2nd largest emitter, accounting for 36.7% of total emissions.",
		"Asia is the 3rd largest emitter, accounting for 5.0% of total emissions.",
		"By hemisphere, the Northern Hemisphere (63.3%) is responsible for the largest share of CO2 emissions, ahead of the Southern Hemisphere (36.7%).",
	}, shareFindings(continents, hemispheres))

	// Keys that already name the hemisphere are not repeated.
	assert.Equal(t, "Southern Hemisphere", hemisphereName("Southern Hemisphere"))
	assert.Empty(t, shareFindings(nil, nil))
}

func TestFindingsSingular(t *testing.T) {
	tab := readTable(t, strings.SplitN(testCSV, "\n", 3)[0]+"\n"+strings.SplitN(testCSV, "\n", 3)[1]+"\n")
	assert.Equal(t, []string{
		"The chart shows the CO2 emissions of the largest emitting country, from 1990-2000. United States is the largest emitter, with a total of 35.",
		"This country's emissions have declined from their peak (1990).",
	}, seriesFindings(tab, emissions.RankByTotal(tab, 10)))

	assert.Equal(t, []string{
		"North America is the largest emitter, accounting for 100.0% of total emissions.",
		"All emissions come from the Northern Hemisphere (100.0%).",
	}, shareFindings(emissions.SumByCategory(tab, emissions.Continent), emissions.SumByCategory(tab, emissions.Hemisphere)))

	four := []emissions.Group{{Key: "A", Total: 40}, {Key: "B", Total: 30}, {Key: "C", Total: 20}, {Key: "D", Total: 10}}
	got := shareFindings(four, nil)
	require.Len(t, got, 4)
	assert.Equal(t, "D accounts for the remaining 10.0% of total emissions.", got[3])

	five := append(four, emissions.Group{Key: "E", Total: 0})
	got = shareFindings(five, nil)
	require.Len(t, got, 4)
	assert.Equal(t, "D and E account for the remaining 10.0% and 0.0% of total emissions, respectively.", got[3])
}

func TestBuild(t *testing.T) {
	b := &Builder{Config: testConfig()}
	p, err := b.Build(readTable(t, testCSV))
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 7}, p.Shape)
	require.Len(t, p.Rows, 3)
	assert.Equal(t, []string{"USA", "United States", "North America", "Northern", "20", "15", "35"}, p.Rows[0])
	assert.Empty(t, p.Image)
	assert.Empty(t, p.Notes1)

	var buf bytes.Buffer
	require.NoError(t, p.WriteHTML(&buf))
	out := buf.String()

	// Sections appear in page order.
	order := []string{
		"<h1>Countrywise Production-Based CO2 Emissions</h1>",
		"Dataset Glossary (Column-wise):",
		"Dataset Details:",
		"Dataset shape: (3, 7)",
		"Visualizations:",
		"Top 3 Countries with the Highest CO2 Emissions",
		"Countries with the Highest CO2 Emissions (1990-2000)",
		"Top 3 Countries with Highest Total CO2 Emissions",
		"United States is the largest emitter",
		"Total CO2 Emissions in Continent/ Hemisphere (1990-2000)",
		"North America is the largest emitter",
		"Thank you for exploring the CO2 emissions statistics.",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if assert.GreaterOrEqual(t, i, 0, "missing %q", s) {
			assert.Greater(t, i, last, "%q out of order", s)
			last = i
		}
	}
	// Bar and map titles are drawn in the chart only.
	assert.Equal(t, 1, strings.Count(out, "Top 3 Countries with the Highest CO2 Emissions"))
	assert.Equal(t, 1, strings.Count(out, "Countries with the Highest CO2 Emissions (1990-2000)"))
	assert.Contains(t, out, "<style>footer {visibility: hidden;}</style>")
	assert.NotContains(t, out, "<?xml")
	assert.NotContains(t, out, "<h4>Notes</h4>")
	assert.GreaterOrEqual(t, strings.Count(out, "<svg"), 5)
}

func TestBuildNotes(t *testing.T) {
	cfg := testConfig()
	cfg.Notes.Pies = []string{"Static remark"}
	cfg.HideFooter = false
	p, err := (&Builder{Config: cfg}).Build(readTable(t, testCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.WriteHTML(&buf))
	out := buf.String()
	assert.Contains(t, out, "<h4>Notes</h4>")
	assert.Contains(t, out, "Static remark")
	assert.NotContains(t, out, "visibility: hidden")
}

func TestBuildEmpty(t *testing.T) {
	header := strings.SplitN(testCSV, "\n", 2)[0] + "\n"
	for name, tab := range map[string]*emissions.Table{
		"header only": readTable(t, header),
		"nil":         nil,
	} {
		p, err := (&Builder{Config: testConfig()}).Build(tab)
		require.NoError(t, err, name)
		var buf bytes.Buffer
		require.NoError(t, p.WriteHTML(&buf), name)
		assert.Equal(t, 5, strings.Count(buf.String(), "No data"), name)
	}
}

func TestBuildOneCountry(t *testing.T) {
	tab := readTable(t, `ISO3,Country,Continent,Hemisphere,1990,Total CO2 Emissions
USA,United States,North America,Northern,20,20
`)
	p, err := (&Builder{Config: testConfig()}).Build(tab)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 6}, p.Shape)

	var buf bytes.Buffer
	require.NoError(t, p.WriteHTML(&buf))
	out := buf.String()
	assert.NotContains(t, out, "No data")
	assert.GreaterOrEqual(t, strings.Count(out, "<svg"), 5)
	assert.Contains(t, out, "the largest emitting country, from 1990.")
}

func TestBuildMissingImage(t *testing.T) {
	cfg := testConfig()
	cfg.Image = filepath.Join(t.TempDir(), "missing.jpg")
	p, err := (&Builder{Config: cfg}).Build(readTable(t, testCSV))
	require.NoError(t, err)
	assert.Empty(t, p.Image)
}

func TestInlineImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, imaging.Save(imaging.New(40, 20, color.NRGBA{200, 50, 50, 255}), path))

	u, err := inlineImage(path, 10)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(u), "data:image/jpeg;base64,"))

	cfg := testConfig()
	cfg.Image, cfg.ImageWidth = path, 10
	p, err := (&Builder{Config: cfg}).Build(readTable(t, testCSV))
	require.NoError(t, err)
	assert.Equal(t, u, p.Image)
}
