package tui

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/store"
	"github.com/theirongolddev/pickplan/internal/tui/components"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
}

func goalOn(date string, amount float64) model.Goal {
	side := model.ShiftSnapshot{
		Amount: amount,
		Rate:   2,
		Picks:  int(amount / 2),
		Hours:  8,
		Date:   date,
		Type:   model.ShiftDay,
		Status: model.StatusRegular,
	}
	return model.Goal{ID: date, Planned: side, Actual: side}
}

func loadedApp(t *testing.T, snap model.Snapshot) App {
	t.Helper()
	a := NewApp(Options{Config: config.DefaultConfig(), Now: fixedNow})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Snapshot: snap})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a, cmd
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2
			require.Equal(t, i, a.tabAtX(x), "active=%d x=%d", active, x)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+5), "active=%d x past last tab", active)
	}
}

func TestDataLoadedComputesPeriodStats(t *testing.T) {
	a := loadedApp(t, model.Snapshot{
		Records: []model.ShiftRecord{
			{Date: "2024-01-08", Amount: 100, Picks: 50, Rate: 2, ShiftType: model.ShiftDay},
			{Date: "2024-01-09", Amount: 300, Picks: 150, Rate: 2, ShiftType: model.ShiftDay},
			{Date: "2023-12-20", Amount: 50, Picks: 25, Rate: 2, ShiftType: model.ShiftDay},
		},
	})

	require.True(t, a.loaded)
	assert.Equal(t, 400.0, a.week.TotalEarnings)
	assert.Equal(t, 400.0, a.month.TotalEarnings)
	assert.Len(t, a.weekdays, 7)
	assert.Contains(t, a.View(), "Overview")
}

func TestGoalsTabCursorAndToggle(t *testing.T) {
	a := loadedApp(t, model.Snapshot{Goals: []model.Goal{
		goalOn("2024-01-08", 100),
		goalOn("2024-01-09", 200),
		goalOn("2024-01-10", 300),
	}})

	a, _ = press(t, a, "g")
	require.Equal(t, tabGoals, a.activeTab)

	a, _ = press(t, a, "j", "j", "j")
	require.Equal(t, 2, a.goals.cursor, "cursor clamps to the last goal")
	a, _ = press(t, a, "k")
	require.Equal(t, 1, a.goals.cursor)

	a, cmd := press(t, a, " ")
	require.NotNil(t, cmd, "toggle should schedule a save")
	g, _ := a.ledger.Goal(1)
	require.True(t, g.Completed)
	_, ok := a.ledger.Records().Get("2024-01-09")
	require.True(t, ok, "completing a goal should add its record")
	assert.Equal(t, 200.0, a.week.TotalEarnings)
}

func TestGoalsTabDeleteNeedsConfirmation(t *testing.T) {
	a := loadedApp(t, model.Snapshot{Goals: []model.Goal{
		goalOn("2024-01-08", 100),
		goalOn("2024-01-09", 200),
	}})
	a, _ = press(t, a, "g", "d")
	require.True(t, a.goals.confirmDelete, "d should ask for confirmation")

	a, _ = press(t, a, "n")
	require.Equal(t, 2, a.ledger.Len(), "goal deleted without confirmation")
	assert.Nil(t, a.planForm, "key that cancels a delete must not open the plan form")

	a, _ = press(t, a, "d", "y")
	assert.Equal(t, 1, a.ledger.Len())
}

func TestCommitPlanAddsGoal(t *testing.T) {
	a := loadedApp(t, model.Snapshot{})
	a.planVals = &PlanForm{
		Target:        "1000",
		Rate:          "2.5",
		Hours:         "8",
		BreakInterval: "2",
		Date:          "2024-01-11",
		Type:          "night",
		Status:        "regular",
	}

	m, cmd := a.commitPlan()
	a = m.(App)
	require.NotNil(t, cmd, "commit should schedule a save")
	require.Equal(t, 1, a.ledger.Len())
	assert.Equal(t, tabGoals, a.activeTab)
	g, _ := a.ledger.Goal(0)
	assert.Equal(t, 400, g.Planned.Picks)
	assert.Equal(t, model.ShiftNight, g.Actual.Type)
}

func TestCommitPlanRejectsPartialInput(t *testing.T) {
	a := loadedApp(t, model.Snapshot{})
	a.planVals = &PlanForm{Target: "1000", Rate: "", Hours: "8", BreakInterval: "2"}

	m, cmd := a.commitPlan()
	a = m.(App)
	assert.Nil(t, cmd)
	assert.Zero(t, a.ledger.Len(), "partial input must not add a goal")
	assert.True(t, a.flashErr)
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t, model.Snapshot{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "80", "narrow view should mention the minimum width")
}

// appOnDisk returns a loaded app backed by a temp database holding snap.
func appOnDisk(t *testing.T, snap model.Snapshot) App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pickplan.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(snap))
	require.NoError(t, st.Close())

	a := NewApp(Options{DBPath: path, Config: config.DefaultConfig(), Now: fixedNow})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = m.Update(a.db.loadCmd()())
	return m.(App)
}

func storedGoals(t *testing.T, a App) model.Snapshot {
	t.Helper()
	st, err := store.Open(a.opts.DBPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	snap, err := st.LoadSnapshot()
	require.NoError(t, err)
	return snap
}

func TestSavesLandInChangeOrder(t *testing.T) {
	a := appOnDisk(t, model.Snapshot{Goals: []model.Goal{goalOn("2024-01-08", 100)}})
	a, _ = press(t, a, "g")

	a, first := press(t, a, " ")
	a, second := press(t, a, " ")
	require.NotNil(t, first)
	require.NotNil(t, second)

	// the newer save finishes before the older one starts
	require.NoError(t, second().(SavedMsg).Err)
	require.NoError(t, first().(SavedMsg).Err)

	snap := storedGoals(t, a)
	require.Len(t, snap.Goals, 1)
	assert.False(t, snap.Goals[0].Completed, "older snapshot overwrote the newer one")
	assert.Empty(t, snap.Records)
}

func TestConcurrentSavesKeepNewestState(t *testing.T) {
	a := appOnDisk(t, model.Snapshot{Goals: []model.Goal{
		goalOn("2024-01-08", 100),
		goalOn("2024-01-09", 200),
	}})
	a, _ = press(t, a, "g")

	var cmds []tea.Cmd
	a, cmd := press(t, a, " ")
	cmds = append(cmds, cmd)
	a, cmd = press(t, a, "j", " ")
	cmds = append(cmds, cmd)
	a, cmd = press(t, a, "d", "y")
	cmds = append(cmds, cmd)

	var wg sync.WaitGroup
	for i := len(cmds) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(c tea.Cmd) {
			defer wg.Done()
			assert.NoError(t, c().(SavedMsg).Err)
		}(cmds[i])
	}
	wg.Wait()

	want := a.ledger.Snapshot()
	got := storedGoals(t, a)
	require.Len(t, got.Goals, len(want.Goals))
	for i := range want.Goals {
		assert.Equal(t, want.Goals[i].ID, got.Goals[i].ID)
		assert.Equal(t, want.Goals[i].Completed, got.Goals[i].Completed)
	}
	assert.Len(t, got.Records, len(want.Records))
}
