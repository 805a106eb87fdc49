// Package components provides reusable TUI widgets for the pickplan dashboard.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// minCardWidth is the narrowest content area a card is drawn with.
const minCardWidth = 10

// Metric is one figure shown in a metric card.
type Metric struct {
	Label string
	Value string
	Delta string
}

// LayoutRow splits total into n widths that add up to total exactly,
// giving the leftover columns to the leftmost items.
func LayoutRow(total, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = total / n
	}
	for i := range total % n {
		widths[i]++
	}
	return widths
}

// frame draws body inside a rounded surface box whose rendered width,
// border included, is outerWidth.
func frame(body string, outerWidth int) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, minCardWidth)).
		Padding(0, 1).
		Render(body)
}

// onSurface returns a style for text drawn inside a card.
func onSurface(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(theme.Active.Surface)
}

// MetricCard renders a label, a bold value and an optional delta line.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	lines := []string{
		onSurface(t.TextMuted).Render(m.Label),
		onSurface(t.TextPrimary).Bold(true).Render(m.Value),
	}
	if m.Delta != "" {
		lines = append(lines, onSurface(t.TextDim).Render(m.Delta))
	}
	return frame(strings.Join(lines, "\n"), outerWidth)
}

// MetricCardRow renders metric cards side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders body in a card, under title when one is given.
func ContentCard(title, body string, outerWidth int) string {
	if title != "" {
		body = onSurface(theme.Active.TextMuted).Bold(true).Render(title) + "\n" + body
	}
	return frame(body, outerWidth)
}

// CardRow joins rendered cards left to right, skipping empty ones. Shorter
// cards are extended with background fill to the tallest card's height.
func CardRow(cards []string) string {
	row := make([]string, 0, len(cards))
	tallest := 0
	for _, c := range cards {
		if c == "" {
			continue
		}
		row = append(row, c)
		tallest = max(tallest, lipgloss.Height(c))
	}
	if len(row) == 0 {
		return ""
	}

	fill := lipgloss.WithWhitespaceBackground(theme.Active.Background)
	for i, c := range row {
		row[i] = lipgloss.PlaceVertical(tallest, lipgloss.Top, c, fill)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

// CardInnerWidth is the text width left inside a card of outerWidth once
// border and padding are taken off.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, minCardWidth)
}
