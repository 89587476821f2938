// Package report renders validation outcomes and repairs for the terminal
// and as a markdown report file.
package report

import "github.com/charmbracelet/lipgloss"

// Terminal palette (ANSI 16): blue headers, green passes, red failures,
// yellow evaluation errors.
var (
	headerColor = lipgloss.Color("4")
	passColor   = lipgloss.Color("2")
	failColor   = lipgloss.Color("1")
	errorColor  = lipgloss.Color("3")
)

// Styles are bound to the renderer of the writer they print to, so color is
// dropped automatically when output is not a terminal.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Pass   lipgloss.Style
	Fail   lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
}

// NewStyles builds the palette for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	cell := r.NewStyle().Padding(0, 1)
	return Styles{
		Header: cell.Bold(true).Foreground(headerColor),
		Cell:   cell,
		Pass:   cell.Foreground(passColor),
		Fail:   cell.Foreground(failColor),
		Error:  cell.Foreground(errorColor),
		Border: r.NewStyle().Faint(true),
	}
}
