package surface

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// TextRenderer writes one "<name>: [p0, p1, p2, p3] = <TYPE>" line per record.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, results []scoring.Result) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		if _, err := fmt.Fprintf(bw, "%s: %s = %s\n", res.Name, res.Percentages, res.Type); err != nil {
			return err
		}
	}
	return bw.Flush()
}
