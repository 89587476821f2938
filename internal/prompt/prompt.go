// Package prompt asks a sequence of questions in the terminal, one at a time,
// validating each answer before moving on.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned by Ask when the user quits with Ctrl-C or Esc.
var ErrCancelled = errors.New("prompt cancelled")

// Question is a single prompt. An empty answer skips the question and is
// never validated.
type Question struct {
	Key      string
	Prompt   string
	Hint     string
	Validate func(answer string) error
}

// model is a bubbletea model that asks one question at a time.
type model struct {
	questions []Question
	idx       int
	inputs    []textinput.Model
	err       error
	done      bool
}

func newModel(questions []Question) model {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.Hint
		ti.CharLimit = 128
		inputs[i] = ti
	}
	m := model{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			answer := strings.TrimSpace(m.inputs[m.idx].Value())
			if v := m.questions[m.idx].Validate; answer != "" && v != nil {
				if err := v(answer); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.err = nil
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	view := fmt.Sprintf("(%d/%d) %s: %s\n", m.idx+1, len(m.questions), q.Prompt, m.inputs[m.idx].View())
	if m.err != nil {
		view += fmt.Sprintf("  %v\n", m.err)
	}
	return view
}

// answers returns the non-empty answers keyed by Question.Key.
func (m model) answers() map[string]string {
	out := make(map[string]string, len(m.questions))
	for i, q := range m.questions {
		if a := strings.TrimSpace(m.inputs[i].Value()); a != "" {
			out[q.Key] = a
		}
	}
	return out
}

// Ask runs the prompt and returns the answers keyed by Question.Key. Skipped
// questions are absent from the result.
func Ask(questions []Question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	result, err := tea.NewProgram(newModel(questions)).Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(model)
	if !ok || !final.done {
		return nil, ErrCancelled
	}
	return final.answers(), nil
}
