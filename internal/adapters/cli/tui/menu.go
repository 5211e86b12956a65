package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

// MenuOption is one action of the interactive menu. Description is shown
// under the list while the option is highlighted.
type MenuOption struct {
	Label       string
	Value       string
	Description string
}

// MenuModel is the bubbletea model for the top-level action menu
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

// NewMenuModel creates a new menu
func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{
		title:   title,
		options: options,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := keyMsg.String(); k {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.options) > 0 {
			m.selected = m.options[m.cursor].Value
		}
		return m, tea.Quit
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	default:
		// 1-9 picks an action directly
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.options) {
			m.cursor = n - 1
			m.selected = m.options[m.cursor].Value
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("? " + m.title))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		prefix, style := "  ", normalStyle
		if i == m.cursor {
			prefix, style = "> ", selectedStyle
		}
		sb.WriteString(prefix)
		sb.WriteString(style.Render(strconv.Itoa(i+1) + ". " + opt.Label))
		sb.WriteString("\n")
	}

	if m.cursor < len(m.options) && m.options[m.cursor].Description != "" {
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render(m.options[m.cursor].Description))
		sb.WriteString("\n")
	}

	sb.WriteString("\n(up/down or 1-9, enter to select, q to quit)\n")
	return sb.String()
}

// Selected returns the selected value, empty when cancelled
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu displays the menu and returns the selection
func RunMenu(title string, options []MenuOption) (string, error) {
	finalModel, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return finalModel.(MenuModel).Selected(), nil
}
