// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package page assembles an emissions table into a self-contained
// HTML report: descriptive text, the raw table, five charts, and
// conclusions computed from the data.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/co2stats/co2report/emissions"
	"github.com/co2stats/co2report/internal/chart"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// A Builder turns tables into Pages.
type Builder struct {
	Config   *Config
	Renderer *chart.Renderer
	Log      *zap.Logger
}

// A Figure is a rendered chart with its caption. Charts whose title
// is drawn inside the plot have no caption.
type Figure struct {
	Caption string
	SVG     template.HTML
}

// A Page is a fully rendered report, ready to be written as HTML.
type Page struct {
	Title, Icon string
	Image       template.URL
	ImageWidth  int
	Intro       template.HTML
	Glossary    template.HTML

	// Columns and Rows are the raw table dump. Shape is its
	// (rows, columns) size.
	Columns []string
	Rows    [][]string
	Shape   [2]int

	Bar, Map, Grid         Figure
	Continents, Hemisphere Figure
	PiesCaption            string

	Findings1, Notes1 template.HTML
	Findings2, Notes2 template.HTML

	Closing, Credit template.HTML
	HideFooter      bool
}

// formatMetric formats a metric for the raw table dump.
func formatMetric(m emissions.Metric) string {
	if !m.Valid {
		return "NA"
	}
	return humanize.CommafWithDigits(m.Value, 2)
}

// Build renders t into a Page. Charts of empty views are drawn as
// placeholders; only configuration and rendering failures are errors.
func (b *Builder) Build(t *emissions.Table) (*Page, error) {
	cfg := b.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := b.Renderer
	if r == nil {
		r = chart.NewRenderer(log, nil)
	}
	if t == nil {
		t = new(emissions.Table)
	}

	p := &Page{
		Title:      cfg.Title,
		Icon:       cfg.Icon,
		ImageWidth: cfg.ImageWidth,
		Columns:    t.Columns,
		HideFooter: cfg.HideFooter,
	}
	p.Shape[0], p.Shape[1] = t.Shape()
	for i := range t.Records {
		p.Rows = append(p.Rows, t.Row(i, formatMetric))
	}

	var err error
	if cfg.Image != "" {
		p.Image, err = inlineImage(cfg.Image, cfg.ImageWidth)
		if err != nil {
			log.Warn("skipping intro image", zap.String("path", cfg.Image), zap.Error(err))
			p.Image = ""
		}
	}
	if p.Intro, err = markdown(cfg.Intro); err != nil {
		return nil, fmt.Errorf("intro: %w", err)
	}
	if p.Glossary, err = bullets(cfg.Glossary); err != nil {
		return nil, fmt.Errorf("glossary: %w", err)
	}
	if p.Closing, err = markdown(cfg.Closing); err != nil {
		return nil, fmt.Errorf("closing: %w", err)
	}
	if p.Credit, err = markdown(cfg.Credit); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}

	top := emissions.RankByTotal(t, cfg.TopN)
	grid := emissions.RankByTotal(t, cfg.GridN)
	countries := emissions.SumByCategory(t, emissions.Country)
	continents := emissions.SumByCategory(t, emissions.Continent)
	hemispheres := emissions.SumByCategory(t, emissions.Hemisphere)
	log.Debug("derived views",
		zap.Int("top", len(top)), zap.Int("grid", len(grid)),
		zap.Int("countries", len(countries)),
		zap.Int("continents", len(continents)), zap.Int("hemispheres", len(hemispheres)))

	sp := span(t)
	render := func(kind chart.Kind, v chart.View, o chart.Options) (template.HTML, error) {
		if o.Palette == "" {
			o.Palette = cfg.Palette
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, chart.Build(kind, v, o)); err != nil {
			return "", err
		}
		return template.HTML(stripProlog(buf.String())), nil
	}

	// The bar chart and map carry their captions as plot titles.
	if p.Bar.SVG, err = render(chart.Bar, chart.View{Groups: top}, chart.Options{
		Title:  caption(cfg.Captions.Bar, CaptionData{N: len(top), Span: sp}),
		XLabel: "Country", YLabel: "Total CO2 Emissions",
	}); err != nil {
		return nil, err
	}

	if p.Map.SVG, err = render(chart.Choropleth, chart.View{Groups: countries, Table: t}, chart.Options{
		Title:      caption(cfg.Captions.Map, CaptionData{N: len(countries), Span: sp}),
		ValueLabel: "Total CO2 Emissions",
	}); err != nil {
		return nil, err
	}

	p.Grid.Caption = caption(cfg.Captions.LineGrid, CaptionData{N: len(grid), Span: sp})
	if p.Grid.SVG, err = render(chart.LineGrid, chart.View{Groups: grid, Table: t}, chart.Options{
		XLabel: "Year", YLabel: "CO2 Emissions", Columns: cfg.GridColumns,
	}); err != nil {
		return nil, err
	}

	p.PiesCaption = caption(cfg.Captions.Pies, CaptionData{N: len(countries), Span: sp})
	p.Continents.Caption = "Continent"
	if p.Continents.SVG, err = render(chart.Pie, chart.View{Groups: continents}, chart.Options{
		Title: "Total CO2 Emissions by Continent",
	}); err != nil {
		return nil, err
	}
	p.Hemisphere.Caption = "Hemisphere"
	if p.Hemisphere.SVG, err = render(chart.Pie, chart.View{Groups: hemispheres}, chart.Options{
		Title: "Total CO2 Emissions by Hemisphere",
	}); err != nil {
		return nil, err
	}

	if p.Findings1, err = bullets(seriesFindings(t, grid)); err != nil {
		return nil, err
	}
	if p.Notes1, err = bullets(cfg.Notes.LineGrid); err != nil {
		return nil, err
	}
	if p.Findings2, err = bullets(shareFindings(continents, hemispheres)); err != nil {
		return nil, err
	}
	if p.Notes2, err = bullets(cfg.Notes.Pies); err != nil {
		return nil, err
	}
	return p, nil
}

// stripProlog removes the XML declaration from an SVG document so it
// can be embedded in HTML.
func stripProlog(svg string) string {
	s := strings.TrimSpace(svg)
	if strings.HasPrefix(s, "<?xml") {
		if i := strings.Index(s, "?>"); i >= 0 {
			s = strings.TrimSpace(s[i+2:])
		}
	}
	return s
}

// WriteHTML writes p to w as a standalone HTML document.
func (p *Page) WriteHTML(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{with .Icon}}{{.}} {{end}}{{.Title}}</title>
    <style>
body {
  font-family: sans-serif;
  color: #222;
  max-width: 1100px;
  margin: 0 auto;
  padding: 0 16px;
}
.intro {
  display: flex;
  gap: 24px;
  align-items: flex-start;
}
.intro>div {
  flex: 1;
}
table {
  border-spacing: 0;
  border-collapse: collapse;
  font-size: 85%;
}
.dump {
  max-height: 400px;
  overflow: auto;
}
table>tbody>tr>td, table>thead>tr>th {
  padding: 4px 8px;
  border-top: 1px solid #ddd;
  white-space: nowrap;
}
table>thead>tr>th {
  position: sticky;
  top: 0;
  background: #fff;
  border-bottom: 2px solid #ddd;
  text-align: left;
}
.shape {
  color: #777;
}
figure {
  margin: 16px 0;
}
figcaption {
  font-weight: bold;
  padding-bottom: 8px;
}
.pies {
  display: flex;
  gap: 16px;
  flex-wrap: wrap;
}
.notes {
  color: #777;
}
    </style>
    {{if .HideFooter}}<style>footer {visibility: hidden;}</style>{{end}}
  </head>
  <body>
    <h1>{{.Title}}</h1>

    <div class="intro">
      <div>{{with .Image}}<img src="{{.}}" width="{{$.ImageWidth}}" alt="" />{{end}}</div>
      <div>{{.Intro}}</div>
    </div>

    <h3>Dataset Glossary (Column-wise):</h3>
    {{.Glossary}}

    <h3>Dataset Details:</h3>
    <div class="dump">
      <table>
        <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
        <tbody>
        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
        {{end}}
        </tbody>
      </table>
    </div>
    <p class="shape">Dataset shape: ({{index .Shape 0}}, {{index .Shape 1}})</p>

    <h3>Visualizations:</h3>
    <figure>{{.Bar.SVG}}</figure>
    <figure>{{.Map.SVG}}</figure>
    <figure>
      <figcaption>{{.Grid.Caption}}</figcaption>
      {{.Grid.SVG}}
    </figure>

    <h3>Conclusion</h3>
    {{.Findings1}}
    {{with .Notes1}}<div class="notes"><h4>Notes</h4>{{.}}</div>{{end}}

    <h3>{{.PiesCaption}}</h3>
    <div class="pies">
      <figure><figcaption>{{.Continents.Caption}}</figcaption>{{.Continents.SVG}}</figure>
      <figure><figcaption>{{.Hemisphere.Caption}}</figcaption>{{.Hemisphere.SVG}}</figure>
    </div>

    <h3>Conclusion</h3>
    {{.Findings2}}
    {{with .Notes2}}<div class="notes"><h4>Notes</h4>{{.}}</div>{{end}}

    <div class="closing">{{.Closing}}</div>
    <div class="credit">{{.Credit}}</div>
    <footer>co2report</footer>
  </body>
</html>
`
