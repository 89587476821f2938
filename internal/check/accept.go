package check

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tether/internal/bound"
	"tether/internal/quantity"
)

var (
	// ErrNoUnits is returned for a manual value that does not end in a unit.
	ErrNoUnits = errors.New("no units specified")
	// ErrUnsatisfied is returned for a manual value outside a bound.
	ErrUnsatisfied = errors.New("value does not satisfy requirement")
)

var unitSuffixRe = regexp.MustCompile(`[A-Za-z]+$`)

// Accept checks a value typed in by a user as a replacement for a failing
// parameter. The value must carry a leading number, end in a unit, and
// satisfy every bound given.
func Accept(raw string, bounds ...bound.Bound) error {
	raw = strings.TrimSpace(raw)
	if !unitSuffixRe.MatchString(raw) {
		return ErrNoUnits
	}
	v := quantity.Parse(raw)
	if !v.OK {
		return fmt.Errorf("%q: %w", raw, quantity.ErrNoMagnitude)
	}
	for _, b := range bounds {
		if !b.Satisfied(v.Magnitude) {
			return fmt.Errorf("%w: (%s)", ErrUnsatisfied, b)
		}
	}
	return nil
}
