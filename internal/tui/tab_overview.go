package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
	"github.com/theirongolddev/pickplan/internal/tui/components"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

const chartWeeks = 12

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: period cards
	metrics := []components.Metric{
		periodMetric("This week", a.week),
		periodMetric("This month", a.month),
		periodMetric("This year", a.year),
		forecastMetric(a.forecast),
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Row 2: weekly earnings chart
	if len(a.weekly) > 0 {
		weeks := a.weekly
		if len(weeks) > chartWeeks {
			weeks = weeks[len(weeks)-chartWeeks:]
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Weekly Earnings (last %d weeks)", len(weeks)),
			components.SeriesChart(weeks, t.Green, components.CardInnerWidth(cw), 8),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: this week's plan against what was worked, and the open goals
	halves := components.LayoutRow(cw, 2)
	planned, worked := a.weekPlanFact()
	innerW := components.CardInnerWidth(halves[0])
	weekBody := components.GoalBar("Week", worked, planned, 5, max(innerW-36, 8))
	if planned == 0 {
		weekBody = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No goals planned this week")
	}
	if done, total := a.weekGoalsDone(); total > 0 {
		weekBody += "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render(fmt.Sprintf("%-5s %d/%d ", "Done", done, total)) +
			components.ProgressBar(float64(done)/float64(total), max(innerW-20, 8))
	}
	weekCard := components.ContentCard("Plan vs Fact (week)", weekBody, halves[0])
	openCard := components.ContentCard("Open Goals", a.openGoalsBody(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Plan vs Fact (week)", weekBody, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Open Goals", a.openGoalsBody(components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{weekCard, openCard}))
	}
	return b.String()
}

func periodMetric(label string, s model.PeriodStats) components.Metric {
	delta := fmt.Sprintf("%s picks · %d days", cli.FormatNumber(int64(s.TotalPicks)), s.Days)
	if s.Days > 0 {
		delta += " · " + cli.FormatMoney(s.AverageEarnings) + "/day"
	}
	return components.Metric{
		Label: label,
		Value: cli.FormatMoney(s.TotalEarnings),
		Delta: delta,
	}
}

func forecastMetric(f model.Forecast) components.Metric {
	if !f.Available {
		return components.Metric{Label: "Next shift forecast", Value: "-", Delta: f.Reason}
	}
	return components.Metric{
		Label: "Next shift forecast",
		Value: cli.FormatMoney(f.NextWeek),
		Delta: fmt.Sprintf("trend %s %s · later %s", trendArrow(f.Trend), f.Trend, cli.FormatMoney(f.NextMonth)),
	}
}

func trendArrow(tr model.Trend) string {
	switch tr {
	case model.TrendUp:
		return "↑"
	case model.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// weekPlanFact sums planned and worked amounts for the current week.
func (a App) weekPlanFact() (planned, worked float64) {
	end := model.DateKey(pipeline.PeriodEnd(pipeline.PeriodWeek, a.opts.Now()))
	for _, p := range a.planFact {
		if p.Date >= a.week.Start && p.Date <= end {
			planned += p.Plan
			worked += p.Fact
		}
	}
	return planned, worked
}

// weekGoalsDone counts goals dated in the current week and how many are completed.
func (a App) weekGoalsDone() (done, total int) {
	end := model.DateKey(pipeline.PeriodEnd(pipeline.PeriodWeek, a.opts.Now()))
	for _, g := range a.ledger.Goals() {
		if g.Actual.Date < a.week.Start || g.Actual.Date > end {
			continue
		}
		total++
		if g.Completed {
			done++
		}
	}
	return done, total
}

func (a App) openGoalsBody(innerW int) string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	shown := 0
	for _, g := range a.ledger.Goals() {
		if g.Completed {
			continue
		}
		if shown == 5 {
			b.WriteString(noteStyle.Render("…"))
			break
		}
		line := dateStyle.Render(g.Actual.Date+"  ") +
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(g.Actual.Amount))) +
			dateStyle.Render(fmt.Sprintf("  %s picks", cli.FormatNumber(int64(g.Actual.Picks))))
		if note := truncStr(g.Actual.Note, innerW-lipgloss.Width(line)-2); note != "" {
			line += noteStyle.Render("  " + note)
		}
		b.WriteString(line)
		b.WriteString("\n")
		shown++
	}
	if shown == 0 {
		return dateStyle.Render("All goals completed")
	}
	return strings.TrimRight(b.String(), "\n")
}
