package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(8)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	focusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212"))
	blurredBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("57"))
	buttonFocusedStyle = buttonStyle.
				Background(lipgloss.Color("212")).
				Foreground(lipgloss.Color("0")).
				Bold(true)
	buttonDisabledStyle = buttonStyle.
				Background(lipgloss.Color("238")).
				Foreground(lipgloss.Color("246"))
)
