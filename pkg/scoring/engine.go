package scoring

import "github.com/ktsort/ktsort/pkg/record"

// Engine scores answer records. It holds no per-record state and is safe for
// concurrent use.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score tallies, converts and classifies one record.
func (e *Engine) Score(rec record.AnswerRecord) Result {
	t := BuildTally(rec.Answers)
	p := Percentages(t)
	return Result{
		Name:        rec.Name,
		Tally:       t,
		Percentages: p,
		Type:        Classify(p),
	}
}
