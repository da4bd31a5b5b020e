package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ktsort/ktsort/internal/storage"
	"github.com/ktsort/ktsort/pkg/surface"
)

func newScoreCmd() *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a file of questionnaire answers",
		Long: `Reads name/answers line pairs from --input, scores every record and writes
one output record per subject to --output. Locations may be local paths, "-"
for stdin/stdout, or s3://bucket/key and gs://bucket/key URLs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			return runScore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Input location")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "Output location")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: "+strings.Join(surface.Formats, ", ")+" (default: config or text)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Scoring workers (default: config or GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.dbDriver, "db-driver", "", "Result store driver: postgres or sqlite")
	cmd.Flags().StringVar(&opts.dbDSN, "db-dsn", "", "Result store connection string")

	return cmd
}

type scoreOpts struct {
	input    string
	output   string
	format   string
	workers  int
	dbDriver string
	dbDSN    string
	stdin    io.Reader
	stdout   io.Writer
}

func runScore(ctx context.Context, opts scoreOpts) error {
	if opts.workers < 0 {
		return fmt.Errorf("--workers must be >= 0, got %d", opts.workers)
	}

	in, err := storage.ParseLocation(opts.input)
	if err != nil {
		return fmt.Errorf("--input: %w", err)
	}
	out, err := storage.ParseLocation(opts.output)
	if err != nil {
		return fmt.Errorf("--output: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, cleanup, err := newRunner(ctx, cfg, runnerOpts{
		format:   opts.format,
		workers:  opts.workers,
		dbDriver: opts.dbDriver,
		dbDSN:    opts.dbDSN,
		stdin:    opts.stdin,
		stdout:   opts.stdout,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := runner.Run(ctx, in, out); err != nil {
		return err
	}
	return nil
}
