package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/planner"
	"github.com/theirongolddev/pickplan/internal/tui/components"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// goalsState tracks the goals tab cursor.
type goalsState struct {
	cursor        int
	confirmDelete bool
}

func (s *goalsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *goalsState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// updateGoalsKeys handles keys specific to the goals tab. It reports
// whether the key was consumed.
func (a App) updateGoalsKeys(key string) (tea.Model, tea.Cmd, bool) {
	n := a.ledger.Len()
	switch key {
	case "j", "down":
		a.goals.move(1, n)
	case "k", "up":
		a.goals.move(-1, n)
	case "home":
		a.goals.cursor = 0
	case "G", "end":
		a.goals.cursor = n - 1
		a.goals.clamp(n)
	case " ", "enter":
		m, cmd := a.toggleSelectedGoal()
		return m, cmd, true
	case "d", "delete":
		if n > 0 {
			a.goals.confirmDelete = true
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) toggleSelectedGoal() (tea.Model, tea.Cmd) {
	i := a.goals.cursor
	if !a.ledger.Toggle(i) {
		a.setFlash("Goal could not be toggled", true)
		return a, nil
	}
	a.recompute()
	g, _ := a.ledger.Goal(i)
	what := "Goal reopened, record for " + g.Actual.Date + " removed"
	if g.Completed {
		what = "Goal completed, recorded " + cli.FormatMoney(g.Actual.Amount) + " on " + g.Actual.Date
	}
	return a, a.saveCmd(what)
}

func (a App) deleteSelectedGoal() (tea.Model, tea.Cmd) {
	if !a.ledger.Delete(a.goals.cursor) {
		return a, nil
	}
	a.recompute()
	return a, a.saveCmd("Goal deleted")
}

func (a App) renderGoalsTab(cw, h int) string {
	t := theme.Active
	goals := a.ledger.Goals()

	if len(goals) == 0 {
		return components.ContentCard("Goals",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
				Render("No goals yet. Press n to plan a shift."),
			cw)
	}

	detailH := 9
	listH := max(h-detailH-4, 3)
	offset := max(a.goals.cursor-listH+1, 0)

	innerW := components.CardInnerWidth(cw)
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	noteW := max(innerW-76, 0)
	format := "%-4s %-10s %-6s %-9s %12s %12s %8s %6s %-2s"
	header := fmt.Sprintf(format, "#", "Date", "Type", "Status", "Target", "Actual", "Picks", "Hours", "")
	if noteW > 0 {
		header += " Note"
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(header))
	b.WriteString("\n")
	end := min(offset+listH, len(goals))
	for i := offset; i < end; i++ {
		g := goals[i]
		mark := ""
		if g.Completed {
			mark = "✓"
		}
		line := fmt.Sprintf(format,
			fmt.Sprintf("%d", i+1),
			g.Actual.Date,
			g.Actual.Type,
			g.Actual.Status,
			cli.FormatMoney(g.Planned.Amount),
			cli.FormatMoney(g.Actual.Amount),
			cli.FormatNumber(int64(g.Actual.Picks)),
			cli.FormatHours(g.Actual.Hours),
			mark,
		)
		if noteW > 0 && g.Actual.Note != "" {
			line += " " + truncStr(g.Actual.Note, noteW)
		}

		switch {
		case i == a.goals.cursor:
			b.WriteString(selStyle.Render(lipgloss.PlaceHorizontal(innerW, lipgloss.Left, line)))
		case g.Completed:
			b.WriteString(doneStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Goals (%d)", len(goals))
	list := components.ContentCard(title, strings.TrimRight(b.String(), "\n"), cw)

	g, ok := a.ledger.Goal(a.goals.cursor)
	if !ok {
		return list
	}
	return list + "\n" + a.renderGoalDetail(g, cw)
}

// renderGoalDetail shows the work plan behind the selected goal.
func (a App) renderGoalDetail(g model.Goal, cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	plan, ok := planner.Compute(planner.Input{
		TargetEarnings:     g.Planned.Amount,
		RatePerUnit:        g.Planned.Rate,
		WorkHours:          g.Planned.Hours,
		BreakIntervalHours: a.cfg.Planner.BreakInterval,
	})

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Rate", cli.FormatRate(g.Actual.Rate)+" per pick")
	if ok {
		row("Picks needed", cli.FormatNumber(int64(plan.UnitsNeeded)))
		row("Picks per hour", cli.FormatNumber(int64(plan.UnitsPerHour)))
		row("Hourly rate", cli.FormatMoney(plan.HourlyRate))
		row("Breaks", fmt.Sprintf("%d × %dm (%s total)", plan.BreaksCount, planner.BreakMinutes, cli.FormatMinutes(float64(plan.TotalBreakMinutes))))
		row("Working time", cli.FormatMinutes(plan.EffectiveWorkMinutes))
		row("Picks per break", cli.FormatNumber(int64(plan.UnitsBeforeEachBreak)))
	}
	if g.Actual.Amount != g.Planned.Amount {
		row("Versus plan", cli.FormatDelta(g.Actual.Amount, g.Planned.Amount))
	}

	innerW := components.CardInnerWidth(cw) - 4
	body := strings.TrimRight(b.String(), "\n") + "\n" +
		components.GoalBar("Done", doneAmount(g), g.Planned.Amount, 6, max(innerW-40, 10))
	return components.ContentCard("Plan", body, cw)
}

func doneAmount(g model.Goal) float64 {
	if g.Completed {
		return g.Actual.Amount
	}
	return 0
}
