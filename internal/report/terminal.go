package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"tether/internal/check"
)

// Printer writes tables and status lines to a terminal.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{w: w, styles: NewStyles(r)}
}

// Outcomes prints one row per link. The requirement column is colored by
// result.
func (p *Printer) Outcomes(outcomes []check.Outcome) {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = []string{
			o.Link.Requirement.QualifiedName,
			o.Link.Parameter.Name,
			o.Link.Requirement.Bounds,
			o.Link.Parameter.Value,
			resultLabel(o),
		}
	}
	t := p.newTable("Requirement", "CAD Parameter", "Bounds", "Parameter Value", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.Header
			}
			if (col == 0 || col == 4) && row < len(outcomes) {
				return p.resultStyle(outcomes[row])
			}
			return p.styles.Cell
		})
	fmt.Fprintln(p.w, t.Render())
}

// Repairs prints the new value computed for each failing parameter.
func (p *Printer) Repairs(repairs []check.Repair) {
	rows := make([][]string, len(repairs))
	for i, r := range repairs {
		rows[i] = []string{r.Name, r.Link.Requirement.Bounds, r.Link.Parameter.Value, r.Value}
	}
	t := p.newTable("CAD Parameter", "Bounds", "Old Value", "New Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.Header
			case col == 3:
				return p.styles.Pass
			}
			return p.styles.Cell
		})
	fmt.Fprintln(p.w, t.Render())
}

// Status prints the one-line verdict for a run.
func (p *Printer) Status(s check.Summary) {
	switch {
	case s.Links == 0:
		fmt.Fprintln(p.w, p.styles.Error.Bold(true).Render("No CAD parameters matched any requirement"))
	case s.OK():
		fmt.Fprintln(p.w, p.styles.Pass.Bold(true).Render("CAD parameters satisfy all associated requirements"))
	default:
		if s.Failed > 0 {
			fmt.Fprintln(p.w, p.styles.Fail.Bold(true).Render(fmt.Sprintf("%d failed requirement(s) found", s.Failed)))
		}
		if s.Errored > 0 {
			fmt.Fprintln(p.w, p.styles.Error.Bold(true).Render(fmt.Sprintf("%d requirement(s) could not be evaluated", s.Errored)))
		}
	}
}

// Errors lists the evaluation error of every errored link.
func (p *Printer) Errors(outcomes []check.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(p.w, "%s %v\n", p.styles.Error.Render("error:"), o.Err)
		}
	}
}

// Line prints plain text.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.Border).
		Headers(headers...)
}

func (p *Printer) resultStyle(o check.Outcome) lipgloss.Style {
	switch {
	case o.Err != nil:
		return p.styles.Error
	case o.Satisfied:
		return p.styles.Pass
	}
	return p.styles.Fail
}

func resultLabel(o check.Outcome) string {
	switch {
	case o.Err != nil:
		return "error"
	case o.Satisfied:
		return "pass"
	}
	return "fail"
}
