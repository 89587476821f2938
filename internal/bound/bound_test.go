package bound_test

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether/internal/bound"
)

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want bound.Bound
	}{
		{"[10;20]", bound.Range{Lower: 10, Upper: 20}},
		{"[[10;20]]", bound.Range{Lower: 10, Upper: 20}},
		{"[[[ 1.5 ; 2e3 ]]]", bound.Range{Lower: 1.5, Upper: 2000}},
		{"  [0;0]  ", bound.Range{Lower: 0, Upper: 0}},
		{"[-5;inf]", bound.Range{Lower: -5, Upper: math.Inf(1)}},
		{"<5", bound.LessThan{Upper: 5}},
		{"< 5", bound.LessThan{Upper: 5}},
		{"<=5", bound.LessOrEqual{Upper: 5}},
		{"<= -0.25", bound.LessOrEqual{Upper: -0.25}},
		{">1", bound.GreaterThan{Lower: 1}},
		{"> 1", bound.GreaterThan{Lower: 1}},
		{">=1", bound.GreaterOrEqual{Lower: 1}},
		{">= 1e-3", bound.GreaterOrEqual{Lower: 0.001}},
		{"=3", bound.EqualTo{Value: 3}},
		{"= 3", bound.EqualTo{Value: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := bound.Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEqualIsNotZeroWidthRange(t *testing.T) {
	got, err := bound.Parse("=3")
	require.NoError(t, err)
	_, isRange := got.(bound.Range)
	assert.False(t, isRange, "=3 parsed as %T, want EqualTo", got)
}

func TestParseInvalid(t *testing.T) {
	for _, expr := range []string{"", "   ", "5", "abc", "[10;20", "10;20]", "(10;20)", "~5", "!=3", "[20;10]"} {
		t.Run(expr, func(t *testing.T) {
			_, err := bound.Parse(expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, bound.ErrInvalidBound)

			var perr *bound.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, expr, perr.Expr)
		})
	}
}

func TestParseNumberFormat(t *testing.T) {
	for _, expr := range []string{"<", "<=abc", ">x", "=", "= 3m", "[a;b]", "[1;]", "[;]", "[1;2;3]", "<nan", "<0x1p3", ">= -0X10", "[0x0;1]"} {
		t.Run(expr, func(t *testing.T) {
			_, err := bound.Parse(expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, bound.ErrNumberFormat)
			assert.NotErrorIs(t, err, bound.ErrInvalidBound)
		})
	}
}

func TestParseOverflowIsInfinite(t *testing.T) {
	got, err := bound.Parse("<1e400")
	require.NoError(t, err)
	assert.Equal(t, bound.LessThan{Upper: math.Inf(1)}, got)

	got, err = bound.Parse("[-1e400;0]")
	require.NoError(t, err)
	assert.Equal(t, bound.Range{Lower: math.Inf(-1), Upper: 0}, got)
}

func TestStringRoundTrip(t *testing.T) {
	for _, expr := range []string{"[10;20]", "<5", "<=5", ">1", ">=1", "=3", "[-1.5;2.25]"} {
		b := bound.MustParse(expr)
		assert.Equal(t, expr, b.String())
		again, err := bound.Parse(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, again)
	}
}

// ---------------------------------------------------------------------------
// Satisfied
// ---------------------------------------------------------------------------

// Summed at run time; as constants 0.1+0.2 would be exactly 0.3.
var tenth, fifth = 0.1, 0.2

func TestSatisfied(t *testing.T) {
	tests := []struct {
		expr  string
		value float64
		want  bool
	}{
		{"[10;20]", 15, true},
		{"[10;20]", 10, true},
		{"[10;20]", 20, true},
		{"[10;20]", 9.999, false},
		{"[10;20]", 20.001, false},
		{"<5", 4.9, true},
		{"<5", 5, false},
		{"<=5", 5, true},
		{"<=5", 5.1, false},
		{">1", 1, false},
		{">1", 1.1, true},
		{">=1", 1, true},
		{">=1", 0.9, false},
		{"=3", 3, true},
		{"=3", 2.5, false},
		{"=0.3", tenth + fifth, false}, // exact equality, no tolerance
	}
	for _, tt := range tests {
		b := bound.MustParse(tt.expr)
		assert.Equal(t, tt.want, b.Satisfied(tt.value), "%s.Satisfied(%v)", tt.expr, tt.value)
	}
}

func TestRangeEndpointsInclusive(t *testing.T) {
	ranges := []bound.Range{
		{Lower: 0, Upper: 0},
		{Lower: -3, Upper: 7},
		{Lower: 10, Upper: 20},
		{Lower: 1e-9, Upper: 1e9},
	}
	deltas := []float64{1e-6, 0.5, 1, 1000}
	for _, r := range ranges {
		assert.True(t, r.Satisfied(r.Lower), "%v lower", r)
		assert.True(t, r.Satisfied(r.Upper), "%v upper", r)
		for _, d := range deltas {
			assert.False(t, r.Satisfied(r.Lower-d), "%v lower-%v", r, d)
			assert.False(t, r.Satisfied(r.Upper+d), "%v upper+%v", r, d)
		}
	}
}

func TestLessThanIsStrict(t *testing.T) {
	for _, upper := range []float64{-10, 0, 5, 1e6} {
		b := bound.LessThan{Upper: upper}
		assert.False(t, b.Satisfied(upper))
		assert.True(t, b.Satisfied(upper-1e-3))
		assert.True(t, b.Satisfied(math.Nextafter(upper, math.Inf(-1))))
	}
}

// ---------------------------------------------------------------------------
// Nearest
// ---------------------------------------------------------------------------

var allBounds = []bound.Bound{
	bound.Range{Lower: 10, Upper: 20},
	bound.Range{Lower: -1, Upper: -1},
	bound.LessThan{Upper: 5},
	bound.LessThan{Upper: -2.5},
	bound.LessOrEqual{Upper: 5},
	bound.GreaterThan{Lower: 1},
	bound.GreaterThan{Lower: 1e6},
	bound.GreaterOrEqual{Lower: 1},
	bound.EqualTo{Value: 3},
}

var probeValues = []float64{-1e9, -3, -1, 0, 0.5, 1, 2.5, 3, 4.999, 5, 6, 10, 15, 20, 25, 1e6, 1e9}

func TestNearestIdempotentWhenSatisfied(t *testing.T) {
	for _, b := range allBounds {
		for _, v := range probeValues {
			if !b.Satisfied(v) {
				continue
			}
			for _, mode := range []bound.Mode{bound.NextAfter, bound.LegacyEpsilon} {
				assert.Equal(t, v, bound.Nearest(b, v, mode), "%s at %v (%s)", b, v, mode)
			}
		}
	}
}

func TestNearestSatisfiesBound(t *testing.T) {
	for _, b := range allBounds {
		for _, v := range probeValues {
			got := bound.Nearest(b, v, bound.NextAfter)
			assert.True(t, b.Satisfied(got), "%s: Nearest(%v) = %v does not pass", b, v, got)
		}
	}
}

func TestNearestValues(t *testing.T) {
	tests := []struct {
		expr  string
		value float64
		want  float64
	}{
		{"=3", 2.5, 3},
		{"<=5", 6, 5},
		{">=1", 0, 1},
		{"[10;20]", 9, 10},
		{"[10;20]", 21, 20},
		{"[10;20]", -100, 10},
		{"[10;20]", 1e9, 20},
		{"<5", 6, math.Nextafter(5, math.Inf(-1))},
		{">1", 0, math.Nextafter(1, math.Inf(1))},
	}
	for _, tt := range tests {
		got := bound.Nearest(bound.MustParse(tt.expr), tt.value, bound.NextAfter)
		assert.Equal(t, tt.want, got, "Nearest(%s, %v)", tt.expr, tt.value)
	}
}

func TestNearestStrictIsAdjacentFloat(t *testing.T) {
	got := bound.Nearest(bound.LessThan{Upper: 5}, 6, bound.NextAfter)
	assert.Less(t, got, 5.0)
	assert.Equal(t, 5.0, math.Nextafter(got, math.Inf(1)), "no float between repair and bound")
	assert.Equal(t, "4.999999999999999", formatG(got))
}

func TestNearestLegacyEpsilon(t *testing.T) {
	// Near 1 the two-epsilon step lands on a representable value.
	got := bound.Nearest(bound.LessThan{Upper: 1}, 2, bound.LegacyEpsilon)
	assert.Equal(t, 1-0x1p-51, got)
	assert.True(t, bound.LessThan{Upper: 1}.Satisfied(got))

	got = bound.Nearest(bound.GreaterThan{Lower: 1}, 0, bound.LegacyEpsilon)
	assert.Equal(t, 1+0x1p-51, got)

	// For large boundaries the step is lost to rounding and the repaired
	// value sits on the boundary itself.
	got = bound.Nearest(bound.LessThan{Upper: 100}, 200, bound.LegacyEpsilon)
	assert.Equal(t, 100.0, got)
	assert.False(t, bound.LessThan{Upper: 100}.Satisfied(got))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]bound.Mode{
		"":               bound.NextAfter,
		"nextafter":      bound.NextAfter,
		"legacy-epsilon": bound.LegacyEpsilon,
	} {
		got, err := bound.ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := bound.ParseMode("round")
	assert.Error(t, err)
}

func formatG(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
