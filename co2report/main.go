// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2report renders a dataset of per-country CO2 emissions as
// a single HTML report page.
//
// The input is a CSV file with one row per country. It must have
// Country, Continent, and Hemisphere columns, and one column per year
// whose header contains the year in parentheses, such as "Metric tons
// of CO2e per capita (1990)". An optional "Total CO2 Emissions" column
// gives each country's total; otherwise it is the sum of the year
// columns.
//
// By default co2report writes the page to stdout. With -table it
// prints the derived views as text tables instead. With -http it
// serves the page, rebuilding it from the input files on every
// request. With -watch it rewrites the -o file whenever an input file
// changes.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"github.com/co2stats/co2report/emissions"
	"github.com/co2stats/co2report/internal/chart"
	"github.com/co2stats/co2report/internal/page"
	"github.com/kballard/go-shellquote"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// inputs names the files a report is built from.
type inputs struct {
	data   string
	config string
	world  string
	image  string
	topN   int
}

func main() {
	log.SetPrefix("co2report: ")
	log.SetFlags(0)

	var (
		flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
		flagMemProfile = flag.String("memprofile", "", "write heap profile to `file`")
		flagData       = flag.String("data", "./final_dataset.csv", "read emissions from CSV `file`")
		flagConfig     = flag.String("config", "", "read page text and layout from YAML `file`")
		flagWorld      = flag.String("world", "", "read country shapes from GeoJSON `file` (default: tile map)")
		flagImage      = flag.String("image", "", "inline image `file` in the intro (default from config)")
		flagOut        = flag.String("o", "", "write output to `file` (default: stdout)")
		flagN          = flag.Int("n", 0, "show the top `n` countries (default from config)")
		flagTable      = flag.Bool("table", false, "print the derived views as tables instead of a page")
		flagHTTP       = flag.String("http", "", "serve the page on `addr`")
		flagWatch      = flag.Bool("watch", false, "rebuild the -o file when an input changes")
		flagBrowser    = flag.String("browser", "", "run `command` with the output file after writing it")
		flagVerbose    = flag.Bool("v", false, "log debug output")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *flagWatch && *flagOut == "" {
		log.Fatal("-watch requires -o")
	}
	if *flagBrowser != "" && *flagOut == "" {
		log.Fatal("-browser requires -o")
	}

	logger, err := newLogger(*flagVerbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *flagMemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	in := inputs{
		data:   *flagData,
		config: *flagConfig,
		world:  *flagWorld,
		image:  *flagImage,
		topN:   *flagN,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *flagHTTP != "":
		err = serve(ctx, *flagHTTP, in, logger)
	case *flagTable:
		err = writeFile(*flagOut, func(w io.Writer) error { return writeTables(w, in) })
	case *flagWatch:
		err = watch(ctx, in, *flagOut, logger)
	default:
		err = writeFile(*flagOut, func(w io.Writer) error { return writeReport(w, in, logger) })
		if err == nil && *flagBrowser != "" {
			err = openBrowser(*flagBrowser, *flagOut)
		}
	}
	if err != nil {
		logger.Error("co2report failed", zap.Error(err))
		if errors.Is(err, emissions.ErrDataUnavailable) {
			log.Fatalf("no data: %v", err)
		}
		log.Fatal(err)
	}
}

// newLogger returns a production zap logger, at debug level if
// verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

// loadConfig returns the page configuration for in.
func loadConfig(in inputs) (*page.Config, error) {
	cfg := page.DefaultConfig()
	if in.config != "" {
		var err error
		if cfg, err = page.LoadConfig(in.config); err != nil {
			return nil, err
		}
	}
	if in.image != "" {
		cfg.Image = in.image
	}
	if in.topN > 0 {
		cfg.TopN, cfg.GridN = in.topN, in.topN
	}
	return cfg, nil
}

// buildPage runs the whole pipeline: load, aggregate, and render.
func buildPage(in inputs, logger *zap.Logger) (*page.Page, error) {
	cfg, err := loadConfig(in)
	if err != nil {
		return nil, err
	}

	t, err := emissions.Load(in.data)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	logger.Info("loaded dataset", zap.String("path", in.data),
		zap.Int("rows", rows), zap.Int("cols", cols), zap.Int("years", len(t.Years)))

	var world *chart.World
	if in.world != "" {
		if world, err = chart.LoadWorld(in.world); err != nil {
			return nil, err
		}
		logger.Debug("loaded world", zap.String("path", in.world), zap.Int("features", world.Len()))
	}

	b := &page.Builder{
		Config:   cfg,
		Renderer: chart.NewRenderer(logger, world),
		Log:      logger,
	}
	return b.Build(t)
}

// writeReport builds the report page and writes it to w.
func writeReport(w io.Writer, in inputs, logger *zap.Logger) error {
	p, err := buildPage(in, logger)
	if err != nil {
		return err
	}
	return p.WriteHTML(w)
}

// writeFile calls write with a buffer and, if it succeeds, writes the
// buffer to path, or to stdout if path is "". path is left untouched
// if write fails.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if path == "" {
		_, err := buf.WriteTo(os.Stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = buf.WriteTo(f)
	return err
}

// openBrowser runs the shell-quoted command cmd with path appended.
func openBrowser(cmd, path string) error {
	args, err := shellquote.Split(cmd)
	if err != nil {
		return fmt.Errorf("parsing -browser: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty -browser command")
	}
	c := exec.Command(args[0], append(args[1:], path)...)
	c.Stdout, c.Stderr = os.Stdout, os.Stderr
	return c.Run()
}
