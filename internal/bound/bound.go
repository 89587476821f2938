// Package bound parses requirement bound expressions and evaluates values
// against them.
//
// A Bound is a closed union: Range, LessThan, LessOrEqual, GreaterThan,
// GreaterOrEqual and EqualTo are its only implementations. Each variant
// carries its own evaluation and repair rule, so a bound without a kind
// cannot be constructed.
//
// Expression grammar (first match wins):
//
//	[lo;hi]   Range, brackets may repeat: [[lo;hi]]
//	<x  <=x   LessThan, LessOrEqual
//	>x  >=x   GreaterThan, GreaterOrEqual
//	=x        EqualTo
package bound

import (
	"fmt"
	"math"
	"strconv"
)

// Bound is a parsed requirement constraint.
type Bound interface {
	// Satisfied reports whether v lies inside the bound.
	Satisfied(v float64) bool

	// String renders the canonical expression for the bound.
	String() string

	// nearest returns the closest passing value for a v that fails the bound.
	nearest(v float64, mode Mode) float64
}

// ---------------------------------------------------------------------------
// Variants
// ---------------------------------------------------------------------------

// Range accepts Lower <= v <= Upper.
type Range struct {
	Lower float64
	Upper float64
}

// LessThan accepts v < Upper.
type LessThan struct {
	Upper float64
}

// LessOrEqual accepts v <= Upper.
type LessOrEqual struct {
	Upper float64
}

// GreaterThan accepts v > Lower.
type GreaterThan struct {
	Lower float64
}

// GreaterOrEqual accepts v >= Lower.
type GreaterOrEqual struct {
	Lower float64
}

// EqualTo accepts exactly Value. Comparison is exact float equality, so
// values carrying rounding noise from the CAD export will fail.
type EqualTo struct {
	Value float64
}

func (b Range) Satisfied(v float64) bool { return v >= b.Lower && v <= b.Upper }
func (b LessThan) Satisfied(v float64) bool { return v < b.Upper }
func (b LessOrEqual) Satisfied(v float64) bool { return v <= b.Upper }
func (b GreaterThan) Satisfied(v float64) bool { return v > b.Lower }
func (b GreaterOrEqual) Satisfied(v float64) bool { return v >= b.Lower }
func (b EqualTo) Satisfied(v float64) bool { return v == b.Value }

func (b Range) String() string {
	return "[" + formatNumber(b.Lower) + ";" + formatNumber(b.Upper) + "]"
}
func (b LessThan) String() string { return "<" + formatNumber(b.Upper) }
func (b LessOrEqual) String() string { return "<=" + formatNumber(b.Upper) }
func (b GreaterThan) String() string { return ">" + formatNumber(b.Lower) }
func (b GreaterOrEqual) String() string { return ">=" + formatNumber(b.Lower) }
func (b EqualTo) String() string { return "=" + formatNumber(b.Value) }

// ---------------------------------------------------------------------------
// Repair
// ---------------------------------------------------------------------------

// Mode selects how a strict bound (< or >) is stepped past when repairing.
type Mode int

const (
	// NextAfter moves to the adjacent representable float64.
	NextAfter Mode = iota
	// LegacyEpsilon moves by two machine epsilons. For boundaries with
	// magnitude >= 4 the step is at most half an ulp and can round back
	// onto the boundary, so the repaired value may still fail.
	LegacyEpsilon
)

// machineEpsilon is the gap between 1.0 and the next float64.
const machineEpsilon = 0x1p-52

// ParseMode maps a configuration name to a Mode. The empty string selects
// NextAfter.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "nextafter":
		return NextAfter, nil
	case "legacy-epsilon":
		return LegacyEpsilon, nil
	}
	return NextAfter, fmt.Errorf("unknown repair mode %q (want nextafter or legacy-epsilon)", s)
}

func (m Mode) String() string {
	if m == LegacyEpsilon {
		return "legacy-epsilon"
	}
	return "nextafter"
}

// Nearest returns the value closest to v that satisfies b. A v that already
// satisfies b is returned unchanged.
func Nearest(b Bound, v float64, mode Mode) float64 {
	if b.Satisfied(v) {
		return v
	}
	return b.nearest(v, mode)
}

// Range repairs to whichever end is closer; ties go to Lower.
func (b Range) nearest(v float64, _ Mode) float64 {
	if math.Abs(v-b.Upper) < math.Abs(v-b.Lower) {
		return b.Upper
	}
	return b.Lower
}

func (b LessThan) nearest(_ float64, mode Mode) float64 {
	if mode == LegacyEpsilon {
		return b.Upper - 2*machineEpsilon
	}
	return math.Nextafter(b.Upper, math.Inf(-1))
}

func (b LessOrEqual) nearest(float64, Mode) float64 { return b.Upper }

func (b GreaterThan) nearest(_ float64, mode Mode) float64 {
	if mode == LegacyEpsilon {
		return b.Lower + 2*machineEpsilon
	}
	return math.Nextafter(b.Lower, math.Inf(1))
}

func (b GreaterOrEqual) nearest(float64, Mode) float64 { return b.Lower }

func (b EqualTo) nearest(float64, Mode) float64 { return b.Value }

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
