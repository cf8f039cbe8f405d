package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	adminBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3).Align(lipgloss.Center)
)
