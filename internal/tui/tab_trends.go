package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/tui/components"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

const (
	planFactRows = 8
	sparkPoints  = 60
)

func (a App) renderTrendsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	weekdayCard := components.ContentCard("Average by Weekday", a.weekdayBody(components.CardInnerWidth(halves[0])), halves[0])
	forecastCard := components.ContentCard("Forecast", a.forecastBody(), halves[1])
	if a.isCompactLayout() {
		b.WriteString(weekdayCard + "\n" + forecastCard)
	} else {
		b.WriteString(components.CardRow([]string{weekdayCard, forecastCard}))
	}
	b.WriteString("\n")

	if len(a.monthly) > 0 {
		b.WriteString(components.ContentCard(
			"Monthly Earnings",
			components.SeriesChart(a.monthly, t.Accent, components.CardInnerWidth(cw), 6),
			cw,
		))
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Plan vs Fact", a.planFactBody(), cw))
	return b.String()
}

func (a App) weekdayBody(innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.weekdays) < 7 {
		return labelStyle.Render("No records yet")
	}

	peak := 0.0
	for _, wd := range a.weekdays {
		peak = max(peak, wd.Average)
	}
	barMax := max(innerW-24, 1)

	var b strings.Builder
	// Monday first
	for i := 1; i <= 7; i++ {
		wd := a.weekdays[i%7]
		barLen := 0
		if peak > 0 {
			barLen = int(wd.Average / peak * float64(barMax))
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render(cli.FormatDayOfWeek(wd.Weekday)),
			numStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(wd.Average))),
			barStyle.Render(strings.Repeat("█", barLen)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) forecastBody() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	f := a.forecast
	if !f.Available {
		return labelStyle.Render(fmt.Sprintf("Not available: %s.\nAt least %d shifts with earnings are needed.",
			f.Reason, a.cfg.Forecast.MinPoints))
	}

	trendColor := t.TextMuted
	switch f.Trend {
	case "up":
		trendColor = t.Green
	case "down":
		trendColor = t.Red
	}
	trendStyle := lipgloss.NewStyle().Foreground(trendColor).Background(t.Surface).Bold(true)

	rows := []struct{ label, value string }{
		{"Next shift", valueStyle.Render(cli.FormatMoney(f.NextWeek))},
		{fmt.Sprintf("%d shifts out", a.cfg.Forecast.MonthSteps), valueStyle.Render(cli.FormatMoney(f.NextMonth))},
		{"Trend", trendStyle.Render(trendArrow(f.Trend) + " " + string(f.Trend))},
		{"Change per shift", valueStyle.Render(cli.FormatDelta(f.Slope, 0))},
		{"Based on", valueStyle.Render(fmt.Sprintf("%d shifts", f.Points))},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", r.label)))
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) planFactBody() string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	planStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	factStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	behindStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.planFact) == 0 {
		return dimStyle.Render("No goals or records yet")
	}

	points := a.planFact
	if len(points) > planFactRows {
		points = points[len(points)-planFactRows:]
	}

	history := a.planFact
	if len(history) > sparkPoints {
		history = history[len(history)-sparkPoints:]
	}
	facts := make([]float64, len(history))
	for i, p := range history {
		facts[i] = p.Fact
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("History ") + components.Sparkline(facts, t.Green))
	b.WriteString("\n\n")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-10s  %12s  %12s  %12s", "Date", "Plan", "Fact", "Delta")))
	b.WriteString("\n")
	for _, p := range points {
		deltaStyle := factStyle
		if p.Fact < p.Plan {
			deltaStyle = behindStyle
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s  ", p.Date)))
		b.WriteString(planStyle.Render(fmt.Sprintf("%12s  ", cli.FormatMoney(p.Plan))))
		b.WriteString(factStyle.Render(fmt.Sprintf("%12s  ", cli.FormatMoney(p.Fact))))
		b.WriteString(deltaStyle.Render(fmt.Sprintf("%12s", cli.FormatDelta(p.Fact, p.Plan))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
