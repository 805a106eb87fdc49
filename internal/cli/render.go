package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)
)

// Table represents a bordered text table for CLI output.
// Every column but the first is right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// SeparatorRow marks a horizontal rule between data rows.
var SeparatorRow = []string{"---"}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(titleWidth).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(titleStyle.Render(title))
}

const titleWidth = 55

// RenderTable renders a bordered table with headers and rows. A row whose
// first cell is "Total" is drawn bold.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}
	widths := columnWidths(t, cols)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(tableRow(widths, t.Headers, func(int) lipgloss.Style { return headerStyle }, true))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow[0] {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		style := valueStyle
		if len(row) > 0 && row[0] == "Total" {
			style = totalStyle
		}
		b.WriteString(tableRow(widths, row, func(int) lipgloss.Style { return style }, false))
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

// columnWidths returns t.Widths when set, otherwise the widest cell per column.
func columnWidths(t Table, cols int) []int {
	widths := make([]int, cols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	measure := func(cells []string) {
		for i, c := range cells {
			if i < cols {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

func rule(widths []int, left, mid, right string) string {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(segs, mid)+right) + "\n"
}

// tableRow left-aligns the first column and right-aligns the rest unless
// leftAll is set.
func tableRow(widths []int, cells []string, style func(int) lipgloss.Style, leftAll bool) string {
	sep := dimStyle.Render("│")
	var b strings.Builder
	b.WriteString(sep)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		format := " %*s "
		if i == 0 || leftAll {
			format = " %-*s "
		}
		b.WriteString(style(i).Render(fmt.Sprintf(format, w, cell)))
		b.WriteString(sep)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderGoalProgress renders how far earned is toward target as a bar
// followed by both amounts. Overshooting fills the bar and turns it green.
func RenderGoalProgress(earned, target float64, width int) string {
	if target <= 0 || width <= 0 {
		return ""
	}

	pct := earned / target
	if pct < 0 {
		pct = 0
	}
	style := mutedStyle
	if pct >= 1 {
		pct = 1
		style = moneyStyle
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s / %s",
		style.Render(bar),
		FormatMoney(earned),
		FormatMoney(target),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
// Negative values sit on the lowest block.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	top := len(sparkBlocks) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkBlocks[max(0, min(int(v/peak*float64(top)), top))]
	}
	return string(out)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderHorizontalBar renders a labelled horizontal bar chart entry.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return fmt.Sprintf("  %s", label)
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	bar := strings.Repeat("█", barLen)
	return fmt.Sprintf("  %s %s %s", label, moneyStyle.Render(bar), mutedStyle.Render(FormatMoney(value)))
}

// RenderWarning renders a one-line notice in the warning color.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render(msg)
}
