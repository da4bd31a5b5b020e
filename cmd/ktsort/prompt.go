package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ktsort/ktsort/internal/storage"
)

const intro = `This program processes a file of answers to the
Keirsey Temperament Sorter.  It converts the
various A and B answers for each person into
a sequence of B-percentages and then into a
four-letter personality type.
`

func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Interactively ask for the input and output files, then score",
		Long: `Prints an introduction, asks for an input file name and an output file name
on the console, then scores the input and writes one text line per subject.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runPrompt(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, intro+"\n")

	// Records read from "-" continue on the console after the answers.
	console := bufio.NewReader(in)
	inputName, err := ask(console, out, "input file name? ")
	if err != nil {
		return err
	}
	outputName, err := ask(console, out, "output file name? ")
	if err != nil {
		return err
	}

	input, err := storage.ParseLocation(inputName)
	if err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	output, err := storage.ParseLocation(outputName)
	if err != nil {
		return fmt.Errorf("output file: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runner, cleanup, err := newRunner(ctx, cfg, runnerOpts{format: "text", stdin: console, stdout: out})
	if err != nil {
		return err
	}
	defer cleanup()

	sum, err := runner.Run(ctx, input, output)
	if err != nil {
		return err
	}
	if output != storage.Stdio {
		fmt.Fprintf(out, "Wrote %d records to %s\n", sum.Records, output)
	}
	return nil
}

// ask prints a prompt and returns the trimmed answer line.
func ask(console *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := console.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer to %q: %w", strings.TrimSpace(prompt), err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", fmt.Errorf("no answer to %q", strings.TrimSpace(prompt))
	}
	return answer, nil
}
