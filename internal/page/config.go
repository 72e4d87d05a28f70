// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the static content and layout of a report page.
type Config struct {
	Title      string `yaml:"title"`
	Icon       string `yaml:"icon"`
	Image      string `yaml:"image"`
	ImageWidth int    `yaml:"image_width"`

	// Intro is Markdown shown next to the image.
	Intro string `yaml:"intro"`

	// Glossary lists the dataset columns. Each entry is one
	// Markdown bullet.
	Glossary []string `yaml:"glossary"`

	// Captions are chart headings. They are templates over
	// CaptionData.
	Captions Captions `yaml:"captions"`

	// Notes are static remarks shown below the computed
	// conclusions. They are labeled as notes because they are not
	// derived from the loaded data.
	Notes Notes `yaml:"notes"`

	Closing string `yaml:"closing"`
	Credit  string `yaml:"credit"`

	TopN        int    `yaml:"top_n"`
	GridN       int    `yaml:"grid_n"`
	GridColumns int    `yaml:"grid_columns"`
	Palette     string `yaml:"palette"`
	HideFooter  bool   `yaml:"hide_footer"`
}

type Captions struct {
	Bar      string `yaml:"bar"`
	Map      string `yaml:"map"`
	LineGrid string `yaml:"line_grid"`
	Pies     string `yaml:"pies"`
}

type Notes struct {
	LineGrid []string `yaml:"line_grid"`
	Pies     []string `yaml:"pies"`
}

// CaptionData is the data available to caption templates.
type CaptionData struct {
	// N is the number of countries in the chart.
	N int

	// Span is the range of years in the dataset, such as
	// "1990-2018".
	Span string
}

// DefaultConfig returns the built-in page configuration.
func DefaultConfig() *Config {
	cfg := new(Config)
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		panic("bad default page config: " + err.Error())
	}
	return cfg
}

// LoadConfig reads a YAML page configuration from path. Fields not
// set in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TopN < 0 || c.GridN < 0 || c.GridColumns < 0 {
		return fmt.Errorf("top_n, grid_n, and grid_columns must not be negative")
	}
	for name, s := range map[string]string{
		"bar": c.Captions.Bar, "map": c.Captions.Map,
		"line_grid": c.Captions.LineGrid, "pies": c.Captions.Pies,
	} {
		if _, err := template.New(name).Parse(s); err != nil {
			return fmt.Errorf("caption %s: %w", name, err)
		}
	}
	return nil
}

// caption expands caption template s.
func caption(s string, data CaptionData) string {
	tmpl, err := template.New("caption").Parse(s)
	if err != nil {
		return s
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return s
	}
	return buf.String()
}
