// Package document reads the requirements and parameters exports and writes
// the parameter update payload.
//
// Requirements exports are produced by the modeling tool in Windows-1252 and
// are transcoded to UTF-8 before JSON decoding. Parameters exports and the
// payload are UTF-8.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"

	"tether/internal/model"
)

// LoadRequirements reads a requirements export from path.
func LoadRequirements(path string) ([]model.Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open requirements: %w", err)
	}
	defer f.Close()

	reqs, err := ReadRequirements(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// ReadRequirements decodes a Windows-1252 encoded JSON array of
// requirement records.
func ReadRequirements(r io.Reader) ([]model.Requirement, error) {
	var reqs []model.Requirement
	dec := json.NewDecoder(charmap.Windows1252.NewDecoder().Reader(r))
	if err := dec.Decode(&reqs); err != nil {
		return nil, fmt.Errorf("parse requirements: %w", err)
	}
	return reqs, nil
}

// LoadParameters reads a parameters export from path.
func LoadParameters(path string) ([]model.Parameter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameters: %w", err)
	}
	defer f.Close()

	params, err := ReadParameters(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return params, nil
}

// ReadParameters decodes a JSON array of parameter groups and flattens it
// into a single ordered list. Groups without parameters are skipped.
func ReadParameters(r io.Reader) ([]model.Parameter, error) {
	var groups []model.ParameterGroup
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}
	var params []model.Parameter
	for _, g := range groups {
		params = append(params, g.Parameters...)
	}
	return params, nil
}

// WritePayload writes p to path as indented JSON, replacing any existing
// file.
func WritePayload(path string, p model.Payload) error {
	var buf bytes.Buffer
	if err := EncodePayload(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// EncodePayload writes p as indented JSON. Keys are sorted.
func EncodePayload(w io.Writer, p model.Payload) error {
	if p.Parameters == nil {
		p.Parameters = map[string]string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}
