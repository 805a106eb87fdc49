package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// a flash message in the middle and the data summary on the right.
func RenderStatusBar(width int, flash string, flashErr bool, info string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if flashErr {
		flashStyle = flashStyle.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [n]ew plan  [q]uit")
	if flash != "" {
		left += base.Render("  ") + flashStyle.Render(flash)
	}
	right := base.Render(info + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
