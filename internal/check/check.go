// Package check validates linked parameters against their requirement
// bounds and computes repaired values for the ones that fail.
//
// Everything here is pure: no I/O, no logging, no shared state. A link whose
// bound or value cannot be read is reported on its own Outcome and does not
// stop the rest of the run.
package check

import (
	"errors"
	"fmt"

	"tether/internal/bound"
	"tether/internal/model"
	"tether/internal/quantity"
)

// Options controls evaluation and repair.
type Options struct {
	// Mode selects how strict bounds are stepped past during repair.
	Mode bound.Mode
	// StrictValues turns parameter values without a leading number into
	// per-link errors instead of evaluating them as zero.
	StrictValues bool
}

// Outcome is the result of evaluating one link.
type Outcome struct {
	Link      model.Link
	Bound     bound.Bound // nil when Err is set by the bound parser
	Value     quantity.Value
	Satisfied bool
	// Err is set when the link could not be evaluated.
	Err error
}

// Passed reports whether the link was evaluated and satisfied.
func (o Outcome) Passed() bool { return o.Err == nil && o.Satisfied }

// Failed reports whether the link was evaluated and not satisfied.
func (o Outcome) Failed() bool { return o.Err == nil && !o.Satisfied }

// Validate evaluates every link in order.
func Validate(links []model.Link, opts Options) []Outcome {
	out := make([]Outcome, len(links))
	for i, l := range links {
		out[i] = evaluate(l, opts)
	}
	return out
}

func evaluate(l model.Link, opts Options) Outcome {
	o := Outcome{Link: l}
	b, err := bound.Parse(l.Requirement.Bounds)
	if err != nil {
		o.Err = fmt.Errorf("requirement %q: %w", l.Requirement.QualifiedName, err)
		return o
	}
	o.Bound = b
	o.Value = quantity.Parse(l.Parameter.Value)
	if opts.StrictValues && !o.Value.OK {
		o.Err = fmt.Errorf("parameter %q value %q: %w", l.Parameter.Name, l.Parameter.Value, quantity.ErrNoMagnitude)
		return o
	}
	o.Satisfied = b.Satisfied(o.Value.Magnitude)
	return o
}

// Failing returns the links of outcomes that were evaluated and failed.
func Failing(outcomes []Outcome) []model.Link {
	var links []model.Link
	for _, o := range outcomes {
		if o.Failed() {
			links = append(links, o.Link)
		}
	}
	return links
}

// ---------------------------------------------------------------------------
// Repair
// ---------------------------------------------------------------------------

// Repair is a corrected value for one failing link.
type Repair struct {
	Link model.Link
	// Name is the parameter's qualified path.
	Name string
	// Value is the repaired magnitude followed by the original unit text.
	Value string
	// Units is copied from the parameter record.
	Units string
}

// RepairLinks computes the nearest passing value for each link, keeping the
// input order. Links already satisfied keep their magnitude. Links whose
// bound cannot be parsed are skipped and reported in the joined error.
func RepairLinks(links []model.Link, opts Options) ([]Repair, error) {
	repairs := make([]Repair, 0, len(links))
	var errs []error
	for _, l := range links {
		b, err := bound.Parse(l.Requirement.Bounds)
		if err != nil {
			errs = append(errs, fmt.Errorf("repair %q: %w", l.Parameter.Name, err))
			continue
		}
		v := quantity.Parse(l.Parameter.Value)
		fixed := v.With(bound.Nearest(b, v.Magnitude, opts.Mode))
		repairs = append(repairs, Repair{
			Link:  l,
			Name:  l.Parameter.Name,
			Value: fixed.String(),
			Units: l.Parameter.Units,
		})
	}
	return repairs, errors.Join(errs...)
}

// Payload maps parameter names to repaired values. When one parameter was
// repaired for several requirements the last repair wins.
func Payload(repairs []Repair) model.Payload {
	p := model.Payload{Parameters: make(map[string]string, len(repairs))}
	for _, r := range repairs {
		p.Parameters[r.Name] = r.Value
	}
	return p
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

// Summary counts outcomes by result.
type Summary struct {
	Links   int `yaml:"links"`
	Passed  int `yaml:"passed"`
	Failed  int `yaml:"failed"`
	Errored int `yaml:"errored"`
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Links: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			s.Errored++
		case o.Satisfied:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

// OK reports whether every link passed.
func (s Summary) OK() bool { return s.Failed == 0 && s.Errored == 0 }

func (s Summary) String() string {
	return fmt.Sprintf("%d links: %d passed, %d failed, %d errored", s.Links, s.Passed, s.Failed, s.Errored)
}
