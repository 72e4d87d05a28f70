// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce is how long watch waits after a change before rebuilding,
// so a burst of writes causes one rebuild.
const debounce = 200 * time.Millisecond

// watch writes the report to out, then rewrites it whenever one of
// the input files changes, until ctx is done.
func watch(ctx context.Context, in inputs, out string, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch directories rather than files so editors that replace
	// files on save keep being seen.
	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range []string{in.data, in.config, in.world, in.image} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	write := func() error {
		return writeFile(out, func(w io.Writer) error { return writeReport(w, in, logger) })
	}
	if err := write(); err != nil {
		return err
	}
	logger.Info("wrote report", zap.String("path", out))
	rebuild := func() error {
		if err := write(); err != nil {
			// Keep watching; the next change may fix the input.
			logger.Error("rebuilding report", zap.Error(err))
			return nil
		}
		logger.Info("wrote report", zap.String("path", out))
		return nil
	}

	events := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for ev := range w.Events {
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !files[abs] {
				continue
			}
			logger.Debug("input changed", zap.String("path", abs), zap.Stringer("op", ev.Op))
			select {
			case events <- abs:
			case <-stop:
				return
			}
		}
	}()
	return watchLoop(ctx, events, w.Errors, debounce, rebuild)
}

// watchLoop calls rebuild once events have been quiet for delay after
// one or more events, until ctx is done or events is closed. Errors
// from errs are returned.
func watchLoop(ctx context.Context, events <-chan string, errs <-chan error, delay time.Duration, rebuild func() error) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return err
		case <-fire:
			fire = nil
			if err := rebuild(); err != nil {
				return err
			}
		}
	}
}
