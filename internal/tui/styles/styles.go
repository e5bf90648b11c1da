package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#10B981") // Green
	Danger     = lipgloss.Color("#EF4444") // Red
	MutedColor = lipgloss.Color("#6B7280") // Gray

	Muted = lipgloss.NewStyle().
		Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	// Status indicators
	StatusInstalled = lipgloss.NewStyle().
			Foreground(Secondary).
			SetString("●")

	StatusAvailable = lipgloss.NewStyle().
			Foreground(MutedColor).
			SetString("○")

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger)

	SuccessText = lipgloss.NewStyle().
			Foreground(Secondary)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)
)
