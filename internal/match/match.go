// Package match associates CAD parameters with requirements by name.
//
// A parameter is linked to every requirement whose trimmed qualified name
// ends with the parameter's short name. The comparison is a literal,
// case-sensitive suffix test, so "Width" links to both
// "System::Structural::Width" and "System::Structural::FrameWidth".
// Links are many-to-many and never deduplicated.
package match

import (
	"strings"

	"tether/internal/model"
)

// Associate returns one link per matching (parameter, requirement) pair,
// ordered by parameter and then by requirement as given. An empty short
// name is a suffix of every name, so such a parameter links to every
// requirement.
func Associate(params []model.Parameter, reqs []model.Requirement) []model.Link {
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = strings.TrimSpace(r.QualifiedName)
	}

	var links []model.Link
	for _, p := range params {
		short := p.ShortName()
		for i, r := range reqs {
			if strings.HasSuffix(names[i], short) {
				links = append(links, model.Link{Parameter: p, Requirement: r})
			}
		}
	}
	return links
}

// Filter returns the parameters for which keep reports true, in order.
func Filter(params []model.Parameter, keep func(model.Parameter) bool) []model.Parameter {
	out := make([]model.Parameter, 0, len(params))
	for _, p := range params {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
