package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/rail-router/config"
	"github.com/theoremus-urban-solutions/rail-router/planner"
	"github.com/theoremus-urban-solutions/rail-router/source"
)

const defaultHTTPTimeout = 15 * time.Second

// openSource builds the record source described by cfg. The returned close
// function is never nil.
func openSource(ctx context.Context, cfg config.SourceConfig) (source.Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case "", "file":
		return source.NewFileSource(cfg.Path), noop, nil
	case "http":
		if cfg.URL == "" {
			return nil, noop, fmt.Errorf("http source needs a url")
		}
		timeout := defaultHTTPTimeout
		if cfg.TimeoutMS > 0 {
			timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
		}
		return source.NewHTTPSource(cfg.URL, timeout), noop, nil
	case "sqlite":
		db, err := source.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
}

// openWorldSources routes every world that has its own source block to that
// source and every other world to the top-level source.
func openWorldSources(ctx context.Context, cfg config.AppConfig) (*source.Mux, func() error, error) {
	noop := func() error { return nil }
	fallback, closeFallback, err := openSource(ctx, cfg.Source)
	if err != nil {
		return nil, noop, err
	}
	closers := []func() error{closeFallback}
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	mux := source.NewMux(fallback)
	for _, w := range cfg.Worlds {
		if w.Source == nil {
			continue
		}
		src, closeSrc, err := openSource(ctx, *w.Source)
		if err != nil {
			_ = closeAll()
			return nil, noop, fmt.Errorf("world %s: %w", w.ID, err)
		}
		closers = append(closers, closeSrc)
		mux.Handle(w.ID, src)
	}
	return mux, closeAll, nil
}

// importFile loads a record file into a SQLite database under worldID.
func importFile(ctx context.Context, dbPath, worldID, file string) (int, error) {
	format, ok := source.FormatOf(filepath.Ext(file))
	if !ok {
		return 0, fmt.Errorf("unsupported record file %s", file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, err
	}
	recs, err := source.Decode(data, format)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", file, err)
	}

	db, err := source.OpenSQLite(ctx, dbPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	if err := db.Import(ctx, worldID, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// exportFile writes the records of a world to file, encoded by its extension.
func exportFile(ctx context.Context, src source.Source, worldID, file string) (int, error) {
	format, ok := source.FormatOf(filepath.Ext(file))
	if !ok {
		return 0, fmt.Errorf("unsupported record file %s", file)
	}
	recs, err := src.Fetch(ctx, worldID)
	if err != nil {
		return 0, err
	}
	data, err := source.Encode(recs, format)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", file, err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// parseXZ reads an "x,z" pair.
func parseXZ(s string) (planner.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return planner.Coordinate{}, fmt.Errorf("expected x,z, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return planner.Coordinate{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return planner.Coordinate{}, fmt.Errorf("bad z in %q: %w", s, err)
	}
	return planner.Coordinate{X: x, Z: z}, nil
}
