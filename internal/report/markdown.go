package report

// markdown.go builds the markdown run report: YAML frontmatter with the run
// summary, followed by the outcome table and the repair table.
//
// Report layout:
//
//	---
//	tool: tether
//	repair_mode: nextafter
//	summary: {links, passed, failed, errored}
//	---
//	# Requirement check
//	## Outcomes      one row per link
//	## Repairs       only when repairs were computed
//	## Errors        only when some link could not be evaluated

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tether/internal/check"
)

// Meta is the frontmatter of a markdown report.
type Meta struct {
	Tool       string        `yaml:"tool"`
	RepairMode string        `yaml:"repair_mode,omitempty"`
	Summary    check.Summary `yaml:"summary"`
}

// Markdown renders a report. No files are written.
func Markdown(meta Meta, outcomes []check.Outcome, repairs []check.Repair) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("report: marshal frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n")
	b.WriteString("# Requirement check\n\n")
	b.WriteString(meta.Summary.String() + "\n")

	b.WriteString("\n## Outcomes\n\n")
	b.WriteString("| Requirement | CAD Parameter | Bounds | Parameter Value | Result |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, o := range outcomes {
		writeRow(&b,
			o.Link.Requirement.QualifiedName,
			o.Link.Parameter.Name,
			o.Link.Requirement.Bounds,
			o.Link.Parameter.Value,
			resultLabel(o),
		)
	}

	if len(repairs) > 0 {
		b.WriteString("\n## Repairs\n\n")
		b.WriteString("| CAD Parameter | Bounds | Old Value | New Value |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, r := range repairs {
			writeRow(&b, r.Name, r.Link.Requirement.Bounds, r.Link.Parameter.Value, r.Value)
		}
	}

	var errs []string
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err.Error())
		}
	}
	if len(errs) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, e := range errs {
			b.WriteString("- " + e + "\n")
		}
	}
	return b.Bytes(), nil
}

// ParseMarkdown splits a rendered report into its frontmatter and body.
func ParseMarkdown(data []byte) (Meta, string, error) {
	const delim = "---\n"
	var meta Meta
	if !bytes.HasPrefix(data, []byte(delim)) {
		return meta, "", fmt.Errorf("report: missing opening --- delimiter")
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return meta, "", fmt.Errorf("report: missing closing --- delimiter")
	}
	if err := yaml.Unmarshal(rest[:idx+1], &meta); err != nil {
		return meta, "", fmt.Errorf("report: unmarshal frontmatter: %w", err)
	}
	return meta, string(rest[idx+1+len(delim):]), nil
}

// WriteMarkdown renders a report and writes it to path, creating parent
// directories as needed.
func WriteMarkdown(path string, meta Meta, outcomes []check.Outcome, repairs []check.Repair) error {
	data, err := Markdown(meta, outcomes, repairs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeRow(b *bytes.Buffer, cells ...string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" " + escapeCell(c) + " |")
	}
	b.WriteString("\n")
}

// escapeCell keeps a value inside its table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
