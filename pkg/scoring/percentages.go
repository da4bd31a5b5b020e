package scoring

// Percentages converts a tally to B-percentages, rounded half up to the
// nearest integer. A dimension with no tallied answers is indeterminate.
func Percentages(t Tally) PercentageVector {
	var v PercentageVector
	for i, c := range t {
		total := c.Total()
		if total == 0 {
			continue
		}
		// round(100*b/total) without floating point
		v[i] = Percentage{
			Value:       (200*c.B + total) / (2 * total),
			Determinate: true,
		}
	}
	return v
}
