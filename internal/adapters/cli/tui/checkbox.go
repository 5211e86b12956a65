package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckboxOption is one post-download step the user can toggle
type CheckboxOption struct {
	Label       string
	Value       string
	Description string
	Checked     bool
}

// CheckboxModel is the bubbletea model for picking pipeline steps
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	cursor    int
	done      bool
	minSelect int
}

// NewCheckboxModel creates a new checkbox selector. minSelect may be zero.
func NewCheckboxModel(title string, options []CheckboxOption, minSelect int) CheckboxModel {
	return CheckboxModel{
		title:     title,
		options:   options,
		minSelect: minSelect,
	}
}

func (m CheckboxModel) Init() tea.Cmd {
	return nil
}

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.options) > 0 {
			m.options[m.cursor].Checked = !m.options[m.cursor].Checked
		}
	case "n":
		for i := range m.options {
			m.options[i].Checked = false
		}
	case "enter":
		if m.countSelected() >= m.minSelect {
			m.done = true
			return m, tea.Quit
		}
	case "q", "ctrl+c", "esc":
		m.done = false
		return m, tea.Quit
	}
	return m, nil
}

func (m CheckboxModel) countSelected() int {
	count := 0
	for _, opt := range m.options {
		if opt.Checked {
			count++
		}
	}
	return count
}

func (m CheckboxModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		box, style := "[ ]", uncheckedStyle
		if opt.Checked {
			box, style = "[x]", checkedStyle
		}

		sb.WriteString(style.Render(cursor + box + " " + opt.Label))
		if opt.Description != "" {
			sb.WriteString(" ")
			sb.WriteString(hintStyle.Render("- " + opt.Description))
		}
		sb.WriteString("\n")
	}

	n := m.countSelected()
	if n < m.minSelect {
		fmt.Fprintf(&sb, "\n(select at least %d)\n", m.minSelect)
	} else {
		fmt.Fprintf(&sb, "\n%d of %d selected\n", n, len(m.options))
	}
	sb.WriteString("(space=toggle, n=none, enter=confirm, q=cancel)\n")
	return sb.String()
}

// Selected returns the selected option values
func (m CheckboxModel) Selected() []string {
	var result []string
	for _, opt := range m.options {
		if opt.Checked {
			result = append(result, opt.Value)
		}
	}
	return result
}

// Cancelled returns true if the user cancelled
func (m CheckboxModel) Cancelled() bool {
	return !m.done
}

// RunCheckbox displays checkboxes and returns the selected values.
// ok is false when the user cancelled.
func RunCheckbox(title string, options []CheckboxOption, minSelect int) (selected []string, ok bool, err error) {
	finalModel, err := tea.NewProgram(NewCheckboxModel(title, options, minSelect)).Run()
	if err != nil {
		return nil, false, err
	}

	result := finalModel.(CheckboxModel)
	if result.Cancelled() {
		return nil, false, nil
	}
	return result.Selected(), true, nil
}
