package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("33")).
			Padding(0, 1)

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("99"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	chartHintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("214"))

	typingStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("240"))

	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)

	maskedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeAccountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("46"))

	inactiveAccountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
