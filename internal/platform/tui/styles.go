package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// starBar renders earned stars out of a maximum, e.g. "★★☆".
func starBar(earned, max int) string {
	if earned > max {
		earned = max
	}
	return strings.Repeat("★", earned) + strings.Repeat("☆", max-earned)
}

// centerText centers a line within the given width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}
