// Package scoring implements the Keirsey Temperament Sorter scoring scheme.
// It tallies A/B answers per personality dimension, converts the tallies to
// B-percentages and resolves each dimension to a letter of the type code.
package scoring

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Count is the number of A and B answers tallied for one dimension.
type Count struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Total returns A+B.
func (c Count) Total() int { return c.A + c.B }

// Tally holds one Count per dimension, indexed by dimension.
type Tally [TestDimensions]Count

// Answered returns the number of answers tallied across all dimensions.
func (t Tally) Answered() int {
	n := 0
	for _, c := range t {
		n += c.Total()
	}
	return n
}

// Percentage is the B-percentage of one dimension. Determinate is false when
// no answers were tallied for the dimension; Value is then meaningless.
type Percentage struct {
	Value       int
	Determinate bool
}

func (p Percentage) String() string {
	if !p.Determinate {
		return "-"
	}
	return strconv.Itoa(p.Value)
}

// MarshalJSON encodes an indeterminate percentage as null.
func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Determinate {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

// UnmarshalJSON accepts a number or null.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var v *int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*p = Percentage{}
		return nil
	}
	*p = Percentage{Value: *v, Determinate: true}
	return nil
}

// PercentageVector holds one B-percentage per dimension.
type PercentageVector [TestDimensions]Percentage

// String renders the vector as "[p0, p1, p2, p3]".
func (v PercentageVector) String() string {
	parts := make([]string, len(v))
	for i, p := range v {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Result is the complete output of scoring one record.
// Immutable once computed.
type Result struct {
	Name        string           `json:"name"`
	Tally       Tally            `json:"tally"`
	Percentages PercentageVector `json:"percentages"`
	Type        TypeCode         `json:"type"`
}
