// Package batch runs the scoring pipeline over a whole input: read records,
// score them, render the results and hand them to the configured sinks.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ktsort/ktsort/internal/storage"
	"github.com/ktsort/ktsort/pkg/record"
	"github.com/ktsort/ktsort/pkg/scoring"
	"github.com/ktsort/ktsort/pkg/surface"
)

// Scorer scores a single record.
type Scorer interface {
	Score(rec record.AnswerRecord) scoring.Result
}

// ResultStore receives every result of a run. Implemented by
// platform.Store.
type ResultStore interface {
	SaveRun(ctx context.Context, runID, source string, results []scoring.Result) error
}

// Locations reads inputs and writes outputs. Implemented by
// storage.Resolver.
type Locations interface {
	Read(ctx context.Context, loc storage.Location) ([]byte, error)
	Write(ctx context.Context, loc storage.Location, data []byte, contentType string) error
}

// Runner executes batch runs.
type Runner struct {
	Scorer    Scorer
	Renderer  surface.Renderer
	Locations Locations
	Store     ResultStore // optional
	Workers   int         // <= 0 means GOMAXPROCS
	Logger    *zap.Logger
}

// Summary describes a completed run.
type Summary struct {
	RunID   string
	Records int
	Results []scoring.Result
}

// Run reads records from input, scores them and writes the rendered results
// to output.
func (r *Runner) Run(ctx context.Context, input, output storage.Location) (*Summary, error) {
	log := r.logger()
	runID := uuid.New().String()
	log = log.With(zap.String("run_id", runID))

	data, err := r.Locations.Read(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	records, err := record.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	log.Debug("Read records", zap.Stringer("input", input), zap.Int("records", len(records)))

	results, err := r.ScoreAll(ctx, records)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.Renderer.Render(&buf, results); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	if err := r.Locations.Write(ctx, output, buf.Bytes(), contentType(r.Renderer)); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	if r.Store != nil {
		if err := r.Store.SaveRun(ctx, runID, input.String(), results); err != nil {
			return nil, fmt.Errorf("saving run: %w", err)
		}
		log.Debug("Saved run to result store")
	}

	log.Info("Scored records",
		zap.Int("records", len(results)),
		zap.Stringer("input", input),
		zap.Stringer("output", output))

	return &Summary{RunID: runID, Records: len(results), Results: results}, nil
}

// ScoreAll scores records on up to Workers goroutines, each taking a
// contiguous chunk. Results keep the input order.
func (r *Runner) ScoreAll(ctx context.Context, records []record.AnswerRecord) ([]scoring.Result, error) {
	results := make([]scoring.Result, len(records))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(records) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = r.Scorer.Score(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return results, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func contentType(rd surface.Renderer) string {
	switch rd.(type) {
	case *surface.JSONRenderer:
		return "application/x-ndjson"
	case *surface.MarkdownRenderer:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
