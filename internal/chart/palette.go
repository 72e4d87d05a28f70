// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Magma and Viridis are samples of the matplotlib perceptually
// uniform colormaps of the same names.
var (
	Magma = palette.RGBGradient{Colors: []color.RGBA{
		{0x00, 0x00, 0x04, 0xff},
		{0x3b, 0x0f, 0x70, 0xff},
		{0x8c, 0x29, 0x81, 0xff},
		{0xde, 0x49, 0x68, 0xff},
		{0xfe, 0x9f, 0x6d, 0xff},
		{0xfc, 0xfd, 0xbf, 0xff},
	}}

	Viridis = palette.RGBGradient{Colors: []color.RGBA{
		{0x44, 0x01, 0x54, 0xff},
		{0x41, 0x44, 0x87, 0xff},
		{0x2a, 0x78, 0x8e, 0xff},
		{0x22, 0xa8, 0x84, 0xff},
		{0x7a, 0xd1, 0x51, 0xff},
		{0xfd, 0xe7, 0x25, 0xff},
	}}
)

// Palette returns the continuous palette called name. Unknown names,
// including "", return Magma.
func Palette(name string) palette.Continuous {
	switch strings.ToLower(name) {
	case "viridis":
		return Viridis
	}
	return Magma
}

// valueScale returns a scale mapping the range of the items' values
// onto [0, 1].
func valueScale(items []Item) scale.Linear {
	if len(items) == 0 {
		return scale.Linear{Min: 0, Max: 1}
	}
	xs := make([]float64, len(items))
	for i, it := range items {
		xs[i] = it.Value
	}
	lo, hi := stats.Bounds(xs)
	if lo == hi {
		lo--
	}
	return scale.Linear{Min: lo, Max: hi}
}

// colorAt returns the color of x under sc and pal.
func colorAt(pal palette.Continuous, sc scale.Linear, x float64) color.Color {
	return pal.Map(math.Max(0, math.Min(1, sc.Map(x))))
}

func hexColor(c color.Color) string {
	r := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", r.R, r.G, r.B)
}

func drawingColor(c color.Color) drawing.Color {
	r := color.RGBAModel.Convert(c).(color.RGBA)
	return drawing.Color{R: r.R, G: r.G, B: r.B, A: r.A}
}
