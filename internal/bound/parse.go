package bound

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidBound is returned when an expression matches no grammar.
	ErrInvalidBound = errors.New("invalid bound expression")
	// ErrNumberFormat is returned when a matched literal is not a number.
	ErrNumberFormat = errors.New("invalid number in bound expression")
)

// ParseError records the expression that failed to parse.
type ParseError struct {
	Expr string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bound %q: %v", e.Expr, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	rangeRe   = regexp.MustCompile(`^\[+([^;\]]*);([^\]]*)\]+$`)
	lessRe    = regexp.MustCompile(`^<(=?)(.*)$`)
	greaterRe = regexp.MustCompile(`^>(=?)(.*)$`)
	equalRe   = regexp.MustCompile(`^=(.*)$`)
)

// Parse turns a requirement bound expression into a Bound. Surrounding
// whitespace is ignored. Errors are *ParseError wrapping ErrInvalidBound or
// ErrNumberFormat.
func Parse(expr string) (Bound, error) {
	s := strings.TrimSpace(expr)

	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo, err := parseNumber(m[1])
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: err}
		}
		hi, err := parseNumber(m[2])
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: err}
		}
		if lo > hi {
			return nil, &ParseError{Expr: expr, Err: fmt.Errorf("%w: lower %s exceeds upper %s",
				ErrInvalidBound, formatNumber(lo), formatNumber(hi))}
		}
		return Range{Lower: lo, Upper: hi}, nil
	}

	if m := lessRe.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[2])
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: err}
		}
		if m[1] == "=" {
			return LessOrEqual{Upper: v}, nil
		}
		return LessThan{Upper: v}, nil
	}

	if m := greaterRe.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[2])
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: err}
		}
		if m[1] == "=" {
			return GreaterOrEqual{Lower: v}, nil
		}
		return GreaterThan{Lower: v}, nil
	}

	if m := equalRe.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[1])
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: err}
		}
		return EqualTo{Value: v}, nil
	}

	return nil, &ParseError{Expr: expr, Err: ErrInvalidBound}
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(expr string) Bound {
	b, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return b
}

// parseNumber parses a trimmed decimal literal. NaN and hex literals are
// rejected. Infinities are allowed so open-ended ranges such as [0;inf] can
// be written, and a literal too large for float64 becomes ±Inf.
func parseNumber(lit string) (float64, error) {
	lit = strings.TrimSpace(lit)
	if digits := strings.TrimLeft(lit, "+-"); strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("%w: %q is not decimal", ErrNumberFormat, lit)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)) {
		return 0, fmt.Errorf("%w: %q", ErrNumberFormat, lit)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrNumberFormat, lit)
	}
	return f, nil
}
