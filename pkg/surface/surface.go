// Package surface defines output rendering for scored records.
// Implementations handle different output targets: plain text lines, JSON
// lines, a colored terminal table and Markdown.
package surface

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// ErrUnknownFormat is returned by ForFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer produces formatted output from scored records.
type Renderer interface {
	// Render writes the formatted results to the writer, in order.
	Render(w io.Writer, results []scoring.Result) error
}

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "terminal", "markdown"}

// ForFormat returns the renderer for a format name. An empty name selects
// the text renderer.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return &TextRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "terminal":
		return &TerminalRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// RecordView is the serialized form of one scored record.
type RecordView struct {
	Name        string                      `json:"name"`
	ACounts     [scoring.TestDimensions]int `json:"a_counts"`
	BCounts     [scoring.TestDimensions]int `json:"b_counts"`
	Percentages scoring.PercentageVector    `json:"percentages"`
	Type        scoring.TypeCode            `json:"type"`
	Temperament scoring.Temperament         `json:"temperament,omitempty"`
}

// NewRecordView flattens a Result for serialization.
func NewRecordView(res scoring.Result) RecordView {
	v := RecordView{
		Name:        res.Name,
		Percentages: res.Percentages,
		Type:        res.Type,
		Temperament: res.Type.Temperament(),
	}
	for i, c := range res.Tally {
		v.ACounts[i] = c.A
		v.BCounts[i] = c.B
	}
	return v
}

// TypeCount is the number of records classified as one type code.
type TypeCount struct {
	Type  scoring.TypeCode
	Count int
}

// Distribution counts results per type code, most frequent first. Ties are
// ordered by code.
func Distribution(results []scoring.Result) []TypeCount {
	counts := make(map[scoring.TypeCode]int)
	for _, r := range results {
		counts[r.Type]++
	}
	dist := make([]TypeCount, 0, len(counts))
	for code, n := range counts {
		dist = append(dist, TypeCount{Type: code, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Type.String() < dist[j].Type.String()
	})
	return dist
}
