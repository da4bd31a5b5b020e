package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTypeCode is returned by ParseTypeCode for malformed codes.
var ErrInvalidTypeCode = errors.New("invalid type code")

// TypeCode is a four-letter personality type such as "INFP", with TieMarker
// in place of any undecided dimension.
type TypeCode [TestDimensions]byte

func (c TypeCode) String() string { return string(c[:]) }

// MarshalText encodes the code as its four letters.
func (c TypeCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a four-letter code.
func (c *TypeCode) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Determinate reports whether no dimension carries the tie marker.
func (c TypeCode) Determinate() bool {
	for _, l := range c {
		if l == TieMarker {
			return false
		}
	}
	return true
}

// Classify resolves each dimension's B-percentage to a letter.
func Classify(v PercentageVector) TypeCode {
	var code TypeCode
	for i, p := range v {
		d := Dimensions[i]
		switch {
		case !p.Determinate:
			code[i] = TieMarker
		case p.Value < 50:
			code[i] = d.Low
		case p.Value > 50:
			code[i] = d.High
		default:
			code[i] = TieMarker
		}
	}
	return code
}

// ParseTypeCode parses a code such as "enfp" or "XSTJ". Letters are matched
// case-insensitively against each dimension's alphabet.
func ParseTypeCode(s string) (TypeCode, error) {
	var code TypeCode
	if len(s) != TestDimensions {
		return code, fmt.Errorf("%w: %q has %d letters, want %d", ErrInvalidTypeCode, s, len(s), TestDimensions)
	}
	s = strings.ToUpper(s)
	for i := 0; i < TestDimensions; i++ {
		d := Dimensions[i]
		switch l := s[i]; l {
		case d.Low, d.High, TieMarker:
			code[i] = l
		default:
			return TypeCode{}, fmt.Errorf("%w: %q position %d must be %c, %c or %c",
				ErrInvalidTypeCode, s, i+1, d.Low, d.High, TieMarker)
		}
	}
	return code, nil
}

// AllTypes returns the sixteen fully determined codes in dimension order,
// low letters first.
func AllTypes() []TypeCode {
	types := make([]TypeCode, 0, 1<<TestDimensions)
	for n := 0; n < 1<<TestDimensions; n++ {
		var code TypeCode
		for i := 0; i < TestDimensions; i++ {
			if n&(1<<(TestDimensions-1-i)) != 0 {
				code[i] = Dimensions[i].High
			} else {
				code[i] = Dimensions[i].Low
			}
		}
		types = append(types, code)
	}
	return types
}
