package surface

import (
	"encoding/json"
	"io"

	"github.com/ktsort/ktsort/pkg/scoring"
)

// JSONRenderer writes one JSON object per record, newline delimited.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, results []scoring.Result) error {
	enc := json.NewEncoder(w)
	for _, res := range results {
		if err := enc.Encode(NewRecordView(res)); err != nil {
			return err
		}
	}
	return nil
}
