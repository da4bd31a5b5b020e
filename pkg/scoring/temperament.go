package scoring

// Temperament is one of Keirsey's four temperament groups.
type Temperament string

const (
	TemperamentIdealist Temperament = "Idealist" // NF
	TemperamentRational Temperament = "Rational" // NT
	TemperamentGuardian Temperament = "Guardian" // SJ
	TemperamentArtisan  Temperament = "Artisan"  // SP
)

// Temperament returns the temperament group of the code, or "" when a letter
// it depends on is undecided.
func (c TypeCode) Temperament() Temperament {
	switch c[1] {
	case 'N':
		switch c[2] {
		case 'F':
			return TemperamentIdealist
		case 'T':
			return TemperamentRational
		}
	case 'S':
		switch c[3] {
		case 'J':
			return TemperamentGuardian
		case 'P':
			return TemperamentArtisan
		}
	}
	return ""
}
