// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"go.uber.org/zap"
)

// ErrRenderSink indicates that a sink rejected a chart or failed
// while drawing it.
var ErrRenderSink = errors.New("render sink failure")

// A Sink draws a non-empty Spec as SVG.
type Sink interface {
	Render(w io.Writer, s *Spec) error
}

// Renderer dispatches Specs to the Sink for their Kind.
type Renderer struct {
	sinks map[Kind]Sink
	log   *zap.Logger
}

// NewRenderer returns a Renderer with the default sinks. world
// supplies country shapes for choropleths; if it is nil, choropleths
// are drawn as tile maps.
func NewRenderer(log *zap.Logger, world *World) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		sinks: map[Kind]Sink{
			Bar:        barSink{},
			Pie:        pieSink{},
			LineGrid:   gridSink{},
			Choropleth: mapSink{world},
		},
		log: log,
	}
}

// SetSink replaces the Sink used for kind.
func (r *Renderer) SetSink(kind Kind, sink Sink) {
	r.sinks[kind] = sink
}

// Render draws s to w.
//
// If s is empty, Render draws a placeholder and does not fail. Errors
// and panics from the sink are returned wrapping ErrRenderSink, in
// which case nothing has been written to w.
func (r *Renderer) Render(w io.Writer, s *Spec) error {
	if s.Empty() {
		r.log.Warn("empty chart", zap.Stringer("kind", s.Kind), zap.String("title", s.Title))
		return writeEmpty(w, s)
	}
	sink := r.sinks[s.Kind]
	if sink == nil {
		return fmt.Errorf("%w: no sink for %v chart", ErrRenderSink, s.Kind)
	}

	var buf bytes.Buffer
	if err := safeRender(sink, &buf, s); err != nil {
		return fmt.Errorf("%w: %v chart %q: %w", ErrRenderSink, s.Kind, s.Title, err)
	}
	r.log.Debug("rendered chart", zap.Stringer("kind", s.Kind), zap.String("title", s.Title), zap.Int("bytes", buf.Len()))
	_, err := buf.WriteTo(w)
	return err
}

func safeRender(sink Sink, w io.Writer, s *Spec) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return sink.Render(w, s)
}

// writeEmpty draws the placeholder for a chart with no data.
func writeEmpty(w io.Writer, s *Spec) error {
	width, height := s.Width, s.Height
	if width <= 0 || height <= 0 {
		width, height = 480, 120
	}
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#f5f5f5;stroke:#ccc")
	if s.Title != "" {
		canvas.Text(width/2, height/2-12, s.Title, "text-anchor:middle;font-family:sans-serif;font-size:16px;fill:#444")
	}
	canvas.Text(width/2, height/2+12, "No data", "text-anchor:middle;font-family:sans-serif;font-size:14px;fill:#888")
	canvas.End()
	_, err := buf.WriteTo(w)
	return err
}
