package components

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Bold(true)

	MissingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	DeepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	BleedingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)
