package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ktsort/ktsort/internal/batch"
	"github.com/ktsort/ktsort/internal/platform"
	"github.com/ktsort/ktsort/internal/storage"
	"github.com/ktsort/ktsort/pkg/config"
	"github.com/ktsort/ktsort/pkg/scoring"
	"github.com/ktsort/ktsort/pkg/surface"
)

// loadConfig loads --config when given, otherwise the discovered config file.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	cfg, path, err := config.Discover(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

type runnerOpts struct {
	format   string
	workers  int
	dbDriver string
	dbDSN    string
	stdin    io.Reader
	stdout   io.Writer
}

// newRunner wires a batch runner from config and flag overrides. The returned
// cleanup func closes the result store, if one was opened, and any remote
// storage backends.
func newRunner(ctx context.Context, cfg *config.Config, opts runnerOpts) (*batch.Runner, func(), error) {
	renderer, err := surface.ForFormat(firstNonEmpty(opts.format, cfg.Output.Format))
	if err != nil {
		return nil, nil, err
	}

	s3 := cfg.Storage.S3
	locations := storage.NewResolver(storage.S3Config{
		Region:    s3.Region,
		Endpoint:  s3.Endpoint,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
	})
	if opts.stdin != nil {
		locations.Stdin = opts.stdin
	}
	if opts.stdout != nil {
		locations.Stdout = opts.stdout
	}

	runner := &batch.Runner{
		Scorer:    scoring.NewEngine(),
		Renderer:  renderer,
		Locations: locations,
		Workers:   cfg.Workers,
		Logger:    logger,
	}
	if opts.workers > 0 {
		runner.Workers = opts.workers
	}

	closeLocations := func() {
		if err := locations.Close(); err != nil {
			logger.Warn("Closing storage backends", zap.Error(err))
		}
	}
	cleanup := closeLocations

	db := config.DatabaseConfig{
		Driver: firstNonEmpty(opts.dbDriver, cfg.Database.Driver),
		DSN:    firstNonEmpty(opts.dbDSN, cfg.Database.DSN),
	}
	if db.Enabled() {
		store, err := platform.Open(ctx, db.Driver, db.DSN)
		if err != nil {
			closeLocations()
			return nil, nil, fmt.Errorf("opening result store: %w", err)
		}
		logger.Debug("Result store enabled", zap.String("driver", db.Driver))
		runner.Store = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("Closing result store", zap.Error(err))
			}
			closeLocations()
		}
	}

	return runner, cleanup, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
