package tui

import "github.com/charmbracelet/lipgloss"

var (
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
