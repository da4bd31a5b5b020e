package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/ktsort/ktsort/internal/storage"
	"github.com/ktsort/ktsort/pkg/record"
	"github.com/ktsort/ktsort/pkg/scoring"
	"github.com/ktsort/ktsort/pkg/surface"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	runID   string
	source  string
	results []scoring.Result
	err     error
}

func (f *fakeStore) SaveRun(_ context.Context, runID, source string, results []scoring.Result) error {
	if f.err != nil {
		return f.err
	}
	f.runID, f.source, f.results = runID, source, results
	return nil
}

func newRunner(t *testing.T, stdin string, stdout *bytes.Buffer) *Runner {
	t.Helper()
	res := storage.NewResolver(storage.S3Config{})
	res.Stdin = strings.NewReader(stdin)
	res.Stdout = stdout
	return &Runner{
		Scorer:    scoring.NewEngine(),
		Renderer:  &surface.TextRenderer{},
		Locations: res,
		Workers:   2,
		Logger:    zap.NewNop(),
	}
}

func TestRunFixtureMatchesGolden(t *testing.T) {
	dir := t.TempDir()
	out := storage.Location{Key: filepath.Join(dir, "out.txt")}
	r := newRunner(t, "", nil)

	sum, err := r.Run(context.Background(), storage.Location{Key: "../../testdata/answers.txt"}, out)
	require.NoError(t, err)
	assert.Equal(t, 11, sum.Records)
	assert.NotEmpty(t, sum.RunID)

	got, err := os.ReadFile(out.Key)
	require.NoError(t, err)
	want, err := os.ReadFile("../../testdata/answers.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestRunStdioWithStore(t *testing.T) {
	var stdout bytes.Buffer
	r := newRunner(t, "Ann\nAAAAAAA\nBob\nbbbbbbbXY\n", &stdout)
	store := &fakeStore{}
	r.Store = store

	sum, err := r.Run(context.Background(), storage.Stdio, storage.Stdio)
	require.NoError(t, err)

	assert.Equal(t, "Ann: [0, 0, 0, 0] = ESTJ\nBob: [100, 100, 100, 100] = INFP\n", stdout.String())
	assert.Equal(t, sum.RunID, store.runID)
	assert.Equal(t, "-", store.source)
	require.Len(t, store.results, 2)
	assert.Equal(t, "INFP", store.results[1].Type.String())
}

func TestRunStoreErrorIsReported(t *testing.T) {
	var stdout bytes.Buffer
	r := newRunner(t, "Ann\nAAAAAAA\n", &stdout)
	r.Store = &fakeStore{err: errors.New("connection refused")}

	_, err := r.Run(context.Background(), storage.Stdio, storage.Stdio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving run")
}

func TestRunMissingInput(t *testing.T) {
	r := newRunner(t, "", nil)
	_, err := r.Run(context.Background(), storage.Location{Key: filepath.Join(t.TempDir(), "nope.txt")}, storage.Stdio)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunJSONOutput(t *testing.T) {
	var stdout bytes.Buffer
	r := newRunner(t, "Ann\nABABABA\n", &stdout)
	r.Renderer = &surface.JSONRenderer{}

	_, err := r.Run(context.Background(), storage.Stdio, storage.Stdio)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"Ann","a_counts":[1,1,1,1],"b_counts":[1,1,1,0],"percentages":[50,50,50,0],"type":"XXXJ"}`,
		stdout.String())
}

func TestScoreAllPreservesOrder(t *testing.T) {
	var records []record.AnswerRecord
	for i := 0; i < 101; i++ {
		answers := "AAAAAAA"
		if i%2 == 1 {
			answers = "BBBBBBB"
		}
		records = append(records, record.AnswerRecord{Name: fmt.Sprintf("subject-%03d", i), Answers: answers})
	}

	for _, workers := range []int{0, 1, 3, 8, 500} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			r := &Runner{Scorer: scoring.NewEngine(), Workers: workers}
			results, err := r.ScoreAll(context.Background(), records)
			require.NoError(t, err)
			require.Len(t, results, len(records))
			for i, res := range results {
				assert.Equal(t, records[i].Name, res.Name)
				want := "ESTJ"
				if i%2 == 1 {
					want = "INFP"
				}
				assert.Equal(t, want, res.Type.String())
			}
		})
	}
}

func TestScoreAllEmpty(t *testing.T) {
	r := &Runner{Scorer: scoring.NewEngine(), Workers: 4}
	results, err := r.ScoreAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Scorer: scoring.NewEngine(), Workers: 2}
	_, err := r.ScoreAll(ctx, []record.AnswerRecord{{Name: "Ann", Answers: "AAAAAAA"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/x-ndjson", contentType(&surface.JSONRenderer{}))
	assert.Equal(t, "text/markdown; charset=utf-8", contentType(&surface.MarkdownRenderer{}))
	assert.Equal(t, "text/plain; charset=utf-8", contentType(&surface.TextRenderer{}))
	assert.Equal(t, "text/plain; charset=utf-8", contentType(&surface.TerminalRenderer{}))
}
