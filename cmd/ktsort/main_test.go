package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ktsort/ktsort/pkg/config"
	"github.com/ktsort/ktsort/pkg/scoring"
)

// isolate points config loading at a file that does not exist so tests run
// with defaults regardless of the working tree. The path is returned for use
// as a --config argument, since building the root command resets the flag
// variables.
func isolate(t *testing.T) string {
	t.Helper()
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	logLevel = ""
	logger = zap.NewNop()
	t.Cleanup(func() {
		configPath = ""
		logLevel = ""
		logger = zap.NewNop()
	})
	return configPath
}

func TestScoreCmdFlags(t *testing.T) {
	cmd := newScoreCmd()
	f := cmd.Flags()

	input, _ := f.GetString("input")
	if input != "-" {
		t.Errorf("default input = %q, want -", input)
	}
	output, _ := f.GetString("output")
	if output != "-" {
		t.Errorf("default output = %q, want -", output)
	}

	for _, flag := range []string{"input", "output", "format", "workers", "db-driver", "db-dsn"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"score", "prompt", "types"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	for _, flag := range []string{"config", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag: %s", flag)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestScoreCmdStdio(t *testing.T) {
	cfgPath := isolate(t)

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader("Ann\nAAAAAAA\nBob\nABABABA\n"))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"score", "--config", cfgPath, "--log-level", "error"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v (stderr: %s)", err, stderr.String())
	}

	want := "Ann: [0, 0, 0, 0] = ESTJ\nBob: [50, 50, 50, 0] = XXXJ\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestScoreCmdFileToFileWithStore(t *testing.T) {
	cfgPath := isolate(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.jsonl")
	db := filepath.Join(dir, "results.db")

	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"score",
		"--config", cfgPath,
		"--input", "../../testdata/answers.txt",
		"--output", out,
		"--format", "json",
		"--workers", "3",
		"--db-driver", "sqlite",
		"--db-dsn", db,
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 11 {
		t.Errorf("got %d JSON lines, want 11", lines)
	}
	if !strings.Contains(stderr.String(), "Scored records") {
		t.Errorf("expected progress log on stderr, got %q", stderr.String())
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("expected result store at %s: %v", db, err)
	}
}

func TestScoreCmdRejectsBadFormat(t *testing.T) {
	cfgPath := isolate(t)

	root := newRootCmd()
	root.SetIn(strings.NewReader(""))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"score", "--config", cfgPath, "--format", "yaml"})

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("error = %v, want unknown output format", err)
	}
}

func TestRunPrompt(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "personality.out")

	var console bytes.Buffer
	in := strings.NewReader("../../testdata/answers.txt\n" + out + "\n")
	if err := runPrompt(context.Background(), in, &console); err != nil {
		t.Fatalf("runPrompt: %v", err)
	}

	for _, want := range []string{"Keirsey Temperament Sorter", "input file name? ", "output file name? ", "Wrote 11 records"} {
		if !strings.Contains(console.String(), want) {
			t.Errorf("console output missing %q:\n%s", want, console.String())
		}
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want, err := os.ReadFile("../../testdata/answers.golden")
	if err != nil {
		t.Fatalf("reading golden: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunPromptStdio(t *testing.T) {
	isolate(t)

	var console bytes.Buffer
	in := strings.NewReader("-\n-\nTied Up\nABABABA\nPrincess Leia\nBBBBBBB\n")
	if err := runPrompt(context.Background(), in, &console); err != nil {
		t.Fatalf("runPrompt: %v", err)
	}

	want := "input file name? output file name? " +
		"Tied Up: [50, 50, 50, 0] = XXXJ\n" +
		"Princess Leia: [100, 100, 100, 100] = INFP\n"
	if !strings.HasSuffix(console.String(), want) {
		t.Errorf("console output does not end with the scored records:\n%s", console.String())
	}
	if strings.Contains(console.String(), "Wrote ") {
		t.Errorf("unexpected summary line for stdout output:\n%s", console.String())
	}
}

func TestRunPromptNoAnswer(t *testing.T) {
	isolate(t)
	err := runPrompt(context.Background(), strings.NewReader("\n"), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty input file name")
	}
}

func TestRunTypes(t *testing.T) {
	var buf bytes.Buffer
	if err := runTypes(&buf, nil); err != nil {
		t.Fatalf("runTypes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 16 {
		t.Fatalf("got %d lines, want 16", len(lines))
	}
	if lines[0] != "ESTJ  Guardian" {
		t.Errorf("first line = %q", lines[0])
	}

	buf.Reset()
	if err := runTypes(&buf, []string{"infp", "XSTJ"}); err != nil {
		t.Fatalf("runTypes: %v", err)
	}
	want := "INFP (Idealist): Introversion, iNtuition, Feeling, Perceiving\n" +
		"XSTJ (Guardian): undecided Extraversion/Introversion, Sensing, Thinking, Judging\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	if err := runTypes(&buf, []string{"ABCD"}); err == nil {
		t.Error("expected error for invalid code")
	}
}

func TestDescribe(t *testing.T) {
	code, err := scoring.ParseTypeCode("EXXJ")
	if err != nil {
		t.Fatal(err)
	}
	got := describe(code)
	want := "EXXJ: Extraversion, undecided Sensing/iNtuition, undecided Thinking/Feeling, Judging"
	if got != want {
		t.Errorf("describe = %q, want %q", got, want)
	}
}

func TestNewRunnerStoreNeedsDriverAndDSN(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.Database.Driver = "sqlite"

	runner, cleanup, err := newRunner(context.Background(), cfg, runnerOpts{})
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer cleanup()
	if runner.Store != nil {
		t.Error("result store opened without a DSN")
	}

	dsn := filepath.Join(t.TempDir(), "results.db")
	runner2, cleanup2, err := newRunner(context.Background(), cfg, runnerOpts{dbDSN: dsn})
	if err != nil {
		t.Fatalf("newRunner with DSN: %v", err)
	}
	defer cleanup2()
	if runner2.Store == nil {
		t.Error("result store not opened with driver and DSN")
	}
}
