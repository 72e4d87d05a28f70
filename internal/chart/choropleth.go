// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
	svg "github.com/ajstarks/svgo"
	geojson "github.com/paulmach/go.geojson"
)

// World is a set of country shapes for choropleth maps.
type World struct {
	features []*geojson.Feature
}

// ReadWorld parses a GeoJSON FeatureCollection of countries.
func ReadWorld(data []byte) (*World, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return &World{fc.Features}, nil
}

// LoadWorld reads a GeoJSON FeatureCollection of countries from path.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := ReadWorld(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Len returns the number of features in w.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.features)
}

var (
	nameProps = []string{"name", "NAME", "ADMIN", "admin", "name_long", "NAME_LONG", "country"}
	codeProps = []string{"ISO_A3", "iso_a3", "ADM0_A3", "iso3"}
)

// match returns the item for feature f, matching first by country
// name and then by ISO3 code.
func match(f *geojson.Feature, byName, byCode map[string]*Item) (*Item, string) {
	var label string
	for _, p := range nameProps {
		name, err := f.PropertyString(p)
		if err != nil || name == "" {
			continue
		}
		if label == "" {
			label = name
		}
		if it := byName[strings.ToLower(name)]; it != nil {
			return it, name
		}
	}
	if id, ok := f.ID.(string); ok {
		if it := byCode[strings.ToUpper(id)]; it != nil {
			return it, label
		}
	}
	for _, p := range codeProps {
		code, err := f.PropertyString(p)
		if err != nil {
			continue
		}
		if it := byCode[strings.ToUpper(code)]; it != nil {
			return it, label
		}
	}
	return nil, label
}

// mapSink draws Choropleth charts. With a World it draws country
// shapes in an equirectangular projection; without one it draws a
// grid of tiles, one per item, in item order.
type mapSink struct {
	world *World
}

const (
	mapTitleHeight  = 32
	mapLegendHeight = 48
	noDataFill      = "#e0e0e0"
)

func (m mapSink) Render(w io.Writer, s *Spec) error {
	pal, sc := Palette(s.Palette), valueScale(s.Items)

	width, height := s.Width, s.Height
	canvas := svg.New(w)
	canvas.Start(width, mapTitleHeight+height+mapLegendHeight)
	canvas.Rect(0, 0, width, mapTitleHeight+height+mapLegendHeight, "fill:white")
	if s.Title != "" {
		canvas.Text(width/2, 22, s.Title, "text-anchor:middle;font-family:sans-serif;font-size:18px")
	}

	canvas.Gtransform(fmt.Sprintf("translate(0,%d)", mapTitleHeight))
	if m.world.Len() > 0 {
		m.drawShapes(canvas, s, pal, sc, width, height)
	} else {
		drawTiles(canvas, s, pal, sc, width, height)
	}
	canvas.Gend()

	drawColorBar(canvas, s, pal, sc, width, mapTitleHeight+height)
	canvas.End()
	return nil
}

func (m mapSink) drawShapes(canvas *svg.SVG, s *Spec, pal palette.Continuous, sc scale.Linear, width, height int) {
	byName := make(map[string]*Item, len(s.Items))
	byCode := make(map[string]*Item, len(s.Items))
	for i := range s.Items {
		it := &s.Items[i]
		byName[strings.ToLower(it.Label)] = it
		if it.Code != "" {
			byCode[strings.ToUpper(it.Code)] = it
		}
	}

	project := func(pt []float64) (float64, float64) {
		x := (pt[0] + 180) / 360 * float64(width)
		y := (90 - pt[1]) / 180 * float64(height)
		return x, y
	}
	var d strings.Builder
	ring := func(r [][]float64) {
		for i, pt := range r {
			if len(pt) < 2 {
				continue
			}
			x, y := project(pt)
			if i == 0 {
				fmt.Fprintf(&d, "M%.1f %.1f", x, y)
			} else {
				fmt.Fprintf(&d, "L%.1f %.1f", x, y)
			}
		}
		d.WriteString("Z")
	}

	for _, f := range m.world.features {
		if f.Geometry == nil {
			continue
		}
		d.Reset()
		switch {
		case f.Geometry.IsPolygon():
			for _, r := range f.Geometry.Polygon {
				ring(r)
			}
		case f.Geometry.IsMultiPolygon():
			for _, poly := range f.Geometry.MultiPolygon {
				for _, r := range poly {
					ring(r)
				}
			}
		default:
			continue
		}

		it, label := match(f, byName, byCode)
		fill, tip := noDataFill, label
		if it != nil {
			fill = hexColor(colorAt(pal, sc, it.Value))
			tip = fmt.Sprintf("%s: %.2f", it.Label, it.Value)
		}
		canvas.Group()
		canvas.Title(tip)
		canvas.Path(d.String(), "fill:"+fill+";fill-rule:evenodd;stroke:#ffffff;stroke-width:0.5")
		canvas.Gend()
	}
}

func drawTiles(canvas *svg.SVG, s *Spec, pal palette.Continuous, sc scale.Linear, width, height int) {
	const cols = 10
	rows := (len(s.Items) + cols - 1) / cols
	tw := width / cols
	th := height / rows
	if th > 60 {
		th = 60
	}
	for i, it := range s.Items {
		x, y := (i%cols)*tw, (i/cols)*th
		c := colorAt(pal, sc, it.Value)
		canvas.Group()
		canvas.Title(fmt.Sprintf("%s: %.2f", it.Label, it.Value))
		canvas.Rect(x+1, y+1, tw-2, th-2, "fill:"+hexColor(c))
		label := it.Code
		if label == "" {
			label = it.Label
		}
		canvas.Text(x+tw/2, y+th/2+4, label, "text-anchor:middle;font-family:sans-serif;font-size:11px;fill:"+textColor(c))
		canvas.Gend()
	}
}

// drawColorBar draws the palette as a horizontal legend at y.
func drawColorBar(canvas *svg.SVG, s *Spec, pal palette.Continuous, sc scale.Linear, width, y int) {
	const steps = 100
	barW, barH := width/2, 12
	x0 := (width - barW) / 2
	for i := 0; i < steps; i++ {
		c := pal.Map(float64(i) / (steps - 1))
		canvas.Rect(x0+i*barW/steps, y+10, barW/steps+1, barH, "fill:"+hexColor(c))
	}
	style := "font-family:sans-serif;font-size:11px"
	canvas.Text(x0, y+10+barH+14, fmt.Sprintf("%.1f", sc.Min), style+";text-anchor:start")
	canvas.Text(x0+barW, y+10+barH+14, fmt.Sprintf("%.1f", sc.Max), style+";text-anchor:end")
	if s.ValueLabel != "" {
		canvas.Text(width/2, y+10+barH+14, s.ValueLabel, style+";text-anchor:middle")
	}
}

// textColor returns a label color readable on background c.
func textColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if lum > 0.5*0xffff {
		return "#000000"
	}
	return "#ffffff"
}
