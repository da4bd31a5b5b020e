package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// TerminalRenderer renders results as an aligned, colored table followed by
// a type distribution summary.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func temperamentColor(t scoring.Temperament) string {
	if noColor() {
		return ""
	}
	switch t {
	case scoring.TemperamentIdealist:
		return colorGreen
	case scoring.TemperamentRational:
		return colorCyan
	case scoring.TemperamentGuardian:
		return colorYellow
	case scoring.TemperamentArtisan:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, results []scoring.Result) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Keirsey Temperament Sorter: %d subjects", len(results))))

	if len(results) == 0 {
		fmt.Fprintln(w, "No records.")
		return nil
	}

	nameWidth := len("Name")
	for _, res := range results {
		if len(res.Name) > nameWidth {
			nameWidth = len(res.Name)
		}
	}

	header := fmt.Sprintf("%-*s  %4s %4s %4s %4s  %-4s  %s", nameWidth, "Name", "E/I", "S/N", "T/F", "J/P", "Type", "Temperament")
	fmt.Fprintln(w, bold(header))
	for _, res := range results {
		temperament := res.Type.Temperament()
		pcts := make([]string, len(res.Percentages))
		for i, p := range res.Percentages {
			pcts[i] = fmt.Sprintf("%4s", p)
		}
		label := string(temperament)
		if label == "" {
			label = dim("undetermined")
		}
		fmt.Fprintf(w, "%-*s  %s  %s  %s\n",
			nameWidth, res.Name,
			strings.Join(pcts, " "),
			colored(res.Type.String(), temperamentColor(temperament)),
			label)
	}
	fmt.Fprintln(w)

	typed := 0
	for _, res := range results {
		if res.Type.Determinate() {
			typed++
		}
	}
	fmt.Fprintf(w, "Fully typed: %d of %d\n\n", typed, len(results))

	fmt.Fprintln(w, "Distribution:")
	for _, tc := range Distribution(results) {
		bar := strings.Repeat("█", barLength(tc.Count, len(results), 30))
		fmt.Fprintf(w, "  %s %3d %s\n",
			colored(tc.Type.String(), temperamentColor(tc.Type.Temperament())),
			tc.Count, dim(bar))
	}
	fmt.Fprintln(w)

	return nil
}

// barLength scales count/total onto width cells, never collapsing a non-zero
// count to an empty bar.
func barLength(count, total, width int) int {
	if total == 0 || count == 0 {
		return 0
	}
	n := count * width / total
	if n == 0 {
		n = 1
	}
	return n
}
