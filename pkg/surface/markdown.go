package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// MarkdownRenderer renders results as a Markdown report with a results table
// and a distribution table.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, results []scoring.Result) error {
	_, err := io.WriteString(w, buildMarkdownReport(results))
	return err
}

func buildMarkdownReport(results []scoring.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Keirsey Temperament Sorter: %d subjects\n\n", len(results)))
	if len(results) == 0 {
		sb.WriteString("_No records._\n")
		return sb.String()
	}

	sb.WriteString("### Results\n\n")
	sb.WriteString("| Name | E/I | S/N | T/F | J/P | Type | Temperament |\n")
	sb.WriteString("|------|-----|-----|-----|-----|------|-------------|\n")
	for _, res := range results {
		sb.WriteString(fmt.Sprintf("| %s |", escapeCell(res.Name)))
		for _, p := range res.Percentages {
			sb.WriteString(fmt.Sprintf(" %s |", p))
		}
		temperament := string(res.Type.Temperament())
		if temperament == "" {
			temperament = "—"
		}
		sb.WriteString(fmt.Sprintf(" **%s** | %s |\n", res.Type, temperament))
	}
	sb.WriteString("\n")

	sb.WriteString("### Distribution\n\n")
	sb.WriteString("| Type | Count |\n|------|-------|\n")
	for _, tc := range Distribution(results) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", tc.Type, tc.Count))
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
