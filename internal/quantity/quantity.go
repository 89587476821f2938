// Package quantity splits CAD parameter values such as "15mm" or "2.5e-3m"
// into a numeric magnitude and an opaque unit suffix.
package quantity

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrNoMagnitude marks a value without a leading number. Parse never
// returns it; callers that reject such values use it to say why.
var ErrNoMagnitude = errors.New("value has no numeric magnitude")

// Value is a parsed parameter value.
type Value struct {
	Magnitude float64
	// Unit is everything after the numeric token, byte for byte.
	Unit string
	// OK is false when no numeric token could be read and Magnitude/Unit
	// hold the zero default.
	OK bool
}

var numberRe = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// Parse reads the leading number of raw. Malformed input degrades to
// Value{0, "", false} rather than failing.
func Parse(raw string) Value {
	tok := numberRe.FindString(raw)
	if tok == "" {
		return Value{}
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		// Out of range literals such as 1e999.
		return Value{}
	}
	return Value{Magnitude: f, Unit: raw[len(tok):], OK: true}
}

// With returns v carrying a new magnitude and the same unit.
func (v Value) With(magnitude float64) Value {
	v.Magnitude = magnitude
	return v
}

// String formats the magnitude in shortest round-trip form followed by the
// unit, so 3 with unit "m" renders as "3m".
func (v Value) String() string {
	return FormatMagnitude(v.Magnitude) + v.Unit
}

// FormatMagnitude formats f in the shortest form that parses back to f.
func FormatMagnitude(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
