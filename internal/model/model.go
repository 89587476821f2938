package model

// model.go holds the records exchanged with the modeling tool: requirements
// exported from the systems model, parameters exported from the CAD model,
// the links between them, and the update payload sent back.

import "strings"

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// Requirement is one record of the requirements export.
type Requirement struct {
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	Bounds        string `json:"bounds" yaml:"bounds"`
}

// Parameter is one CAD parameter. Name is the qualified path inside the CAD
// model, e.g. `Assembly\Bracket\Width`. Units may repeat unit text already
// present in Value.
type Parameter struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Units string `json:"units,omitempty" yaml:"units,omitempty"`
}

// ShortName returns the last segment of the parameter path with
// surrounding whitespace removed. Both `\` and `/` separate segments.
func (p Parameter) ShortName() string {
	name := p.Name
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

// SlashPath returns Name with `\` separators rewritten to `/`.
func (p Parameter) SlashPath() string {
	return strings.ReplaceAll(p.Name, `\`, "/")
}

// ParameterGroup is one element of the parameters export. Groups without
// parameters carry a null or missing list.
type ParameterGroup struct {
	Parameters []Parameter `json:"parameters"`
}

// ---------------------------------------------------------------------------
// Links and output
// ---------------------------------------------------------------------------

// Link pairs a parameter with a requirement whose qualified name ends in
// the parameter's short name.
type Link struct {
	Parameter   Parameter
	Requirement Requirement
}

// Payload is the update document consumed by the parameter update job:
// parameter name to new value string.
type Payload struct {
	Parameters map[string]string `json:"parameters"`
}
