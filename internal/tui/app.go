// Package tui provides the interactive Bubble Tea dashboard for pickplan.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
	"github.com/theirongolddev/pickplan/internal/planner"
	"github.com/theirongolddev/pickplan/internal/tui/components"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// DataLoadedMsg is sent when the stored snapshot finishes loading.
type DataLoadedMsg struct {
	Snapshot model.Snapshot
	LoadTime time.Duration
	Err      error
}

// SavedMsg reports the outcome of writing the snapshot back to the store.
type SavedMsg struct {
	What string
	Err  error
}

// Options configures a new App.
type Options struct {
	DBPath     string
	Config     config.Config
	ConfigPath string
	// NeedSetup opens the first-run wizard once data has loaded.
	NeedSetup bool
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	cfg  config.Config
	db   *snapshotDB

	// Data
	ledger   *ledger.GoalStore
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Pre-computed views of the ledger
	week     model.PeriodStats
	month    model.PeriodStats
	year     model.PeriodStats
	weekly   []model.SeriesPoint
	monthly  []model.SeriesPoint
	weekdays []model.WeekdayAverage
	planFact []model.PlanFactPoint
	forecast model.Forecast

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	goals     goalsState

	flash    string
	flashErr bool

	// New plan (huh form)
	planForm *huh.Form
	planVals *PlanForm

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5
)

const (
	tabOverview = iota
	tabGoals
	tabTrends
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:    opts,
		cfg:     opts.Config,
		db:      newSnapshotDB(opts.DBPath),
		ledger:  ledger.NewGoalStore(nil),
		spinner: sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.db.loadCmd(),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	now := a.opts.Now()
	records := a.ledger.Records().All()
	goals := a.ledger.Goals()

	a.week = pipeline.StatsForPeriod(records, pipeline.PeriodWeek, now)
	a.month = pipeline.StatsForPeriod(records, pipeline.PeriodMonth, now)
	a.year = pipeline.StatsForPeriod(records, pipeline.PeriodYear, now)
	a.weekly = pipeline.WeeklySeries(records)
	a.monthly = pipeline.MonthlySeries(records)
	a.weekdays = pipeline.WeekdayAverages(records)
	a.planFact = pipeline.PlanVsFact(goals, records)
	a.forecast = pipeline.Forecast(records, pipeline.ForecastOptions{
		Window:     a.cfg.Forecast.Window,
		MinPoints:  a.cfg.Forecast.MinPoints,
		MonthSteps: a.cfg.Forecast.MonthSteps,
	})

	a.goals.clamp(a.ledger.Len())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.planForm != nil {
			a.planForm = a.planForm.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.planForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.planForm != nil {
			return a.updatePlanForm(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.ledger = ledger.FromSnapshot(msg.Snapshot)
			a.ledger.SetClock(a.opts.Now)
		}
		a.recompute()

		if a.opts.NeedSetup {
			a.setupVals = NewSetupValues(a.cfg)
			a.setupForm = a.setupVals.Form()
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			logger.Error("saving snapshot", "err", msg.Err)
			a.setFlash("Save failed: "+msg.Err.Error(), true)
		} else {
			a.setFlash(msg.What, false)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to an open form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.planForm != nil {
		return a.updatePlanForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// A pending delete swallows the next key.
	if a.goals.confirmDelete {
		a.goals.confirmDelete = false
		if key == "y" {
			return a.deleteSelectedGoal()
		}
		a.setFlash("Delete cancelled", false)
		return a, nil
	}

	if a.activeTab == tabGoals {
		if m, cmd, handled := a.updateGoalsKeys(key); handled {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "n":
		return a.openPlanForm()
	case "r":
		return a, a.db.loadCmd()
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabGoals {
			a.goals.move(-1, a.ledger.Len())
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabGoals {
			a.goals.move(1, a.ledger.Len())
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) openPlanForm() (tea.Model, tea.Cmd) {
	a.planVals = NewPlanForm(a.cfg, model.DateKey(a.opts.Now()))
	a.planForm = a.planVals.Form().WithWidth(a.formWidth())
	return a, a.planForm.Init()
}

func (a App) updatePlanForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		a.planForm = nil
		return a, nil
	}

	form, cmd := a.planForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.planForm = f
	}

	switch a.planForm.State {
	case huh.StateCompleted:
		a.planForm = nil
		return a.commitPlan()
	case huh.StateAborted:
		a.planForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) commitPlan() (tea.Model, tea.Cmd) {
	plan, ok := planner.ComputeRaw(a.planVals.Raw())
	if !ok {
		a.setFlash("No plan: every number must be above zero", true)
		return a, nil
	}
	idx, ok := a.ledger.Add(plan.Input, a.planVals.Entry())
	if !ok {
		a.setFlash("Goal not added: check date, type and status", true)
		return a, nil
	}
	a.recompute()
	a.activeTab = tabGoals
	a.goals.cursor = idx
	what := fmt.Sprintf("Goal added: %s picks for %s", cli.FormatNumber(int64(plan.UnitsNeeded)), cli.FormatMoney(plan.Input.TargetEarnings))
	return a, a.saveCmd(what)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupVals.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		if err := config.SaveToPath(a.opts.ConfigPath, a.cfg); err != nil {
			a.setFlash("Config not saved: "+err.Error(), true)
		} else {
			a.setFlash("Saved "+a.opts.ConfigPath, false)
		}
		a.setupForm = nil
		a.opts.NeedSetup = false
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		a.opts.NeedSetup = false
		return a, nil
	}
	return a, cmd
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

// saveCmd writes the current ledger to the store in the background.
func (a App) saveCmd(what string) tea.Cmd {
	return a.db.saveCmd(a.ledger.Snapshot(), what)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) formWidth() int {
	return min(max(a.contentWidth()-4, 40), 72)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  pickplan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

// centered draws body in an accent-bordered box in the middle of the screen.
func (a App) centered(body string, padY, padX int) string {
	t := theme.Active
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(padY, padX).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Render("◈ pickplan")

	return a.centered(logo+muted.Render(" · shift planner")+"\n\n"+
		a.spinner.View()+muted.Render(" Loading goals and records..."), 2, 4)
}

// helpSections lists the key bindings shown by the help overlay.
var helpSections = []struct {
	title    string
	bindings [][2]string
}{
	{"Navigation", [][2]string{
		{"o g t", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Move through goals"},
	}},
	{"Goals", [][2]string{
		{"n", "New plan (commits a goal)"},
		{"space", "Toggle completed"},
		{"d", "Delete goal (y to confirm)"},
	}},
	{"General", [][2]string{
		{"r", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active
	on := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Background(t.Surface)
	}

	lines := []string{on(t.AccentBright).Bold(true).Render("◈ Keys")}
	for _, sec := range helpSections {
		lines = append(lines, "", on(t.Accent).Bold(true).Render(sec.title))
		for _, kb := range sec.bindings {
			lines = append(lines, "  "+on(t.Blue).Bold(true).Render(fmt.Sprintf("%-8s", kb[0]))+
				"  "+on(t.TextMuted).Render(kb[1]))
		}
	}
	lines = append(lines, "", on(t.TextDim).Render("any key closes this"))
	return a.centered(strings.Join(lines, "\n"), 1, 3)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := fmt.Sprintf("%d goals · %d records · loaded in %s",
		a.ledger.Len(), a.ledger.Records().Len(), a.loadTime.Round(time.Millisecond))
	flash, flashErr := a.flash, a.flashErr
	if a.loadErr != nil {
		flash, flashErr = "Load failed: "+a.loadErr.Error(), true
	}
	if a.goals.confirmDelete {
		flash, flashErr = "Delete this goal? y to confirm", true
	}
	statusBar := components.RenderStatusBar(w, flash, flashErr, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.planForm != nil:
		content = components.ContentCard("New plan", a.planForm.View(), min(cw, a.formWidth()+4))
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabGoals:
		content = a.renderGoalsTab(cw, contentH)
	case a.activeTab == tabTrends:
		content = a.renderTrendsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
