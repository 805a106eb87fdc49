package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/planner"
)

var referenceInput = planner.Input{
	TargetEarnings:     2000,
	RatePerUnit:        1.5,
	WorkHours:          8,
	BreakIntervalHours: 2,
}

func newStoreWithGoal(t *testing.T, date string) *GoalStore {
	t.Helper()
	s := NewGoalStore(NewRecordStore())
	_, ok := s.Add(referenceInput, Entry{Date: date, Type: "night", Note: "peak season"})
	require.True(t, ok)
	return s
}

func TestGoalStore_AddCopiesPlanIntoBothSides(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")

	g, ok := s.Goal(0)
	require.True(t, ok)
	assert.NotEmpty(t, g.ID)
	assert.False(t, g.Completed)
	assert.Equal(t, g.Planned, g.Actual)
	assert.Equal(t, 2000.0, g.Planned.Amount)
	assert.Equal(t, 1.5, g.Planned.Rate)
	assert.Equal(t, 1334, g.Planned.Picks)
	assert.Equal(t, 8.0, g.Planned.Hours)
	assert.Equal(t, "2024-01-08", g.Planned.Date)
	assert.Equal(t, model.ShiftNight, g.Planned.Type)
	assert.Equal(t, model.StatusRegular, g.Planned.Status)
	assert.Equal(t, "peak season", g.Planned.Note)
}

func TestGoalStore_AddWithoutPlanIsNoop(t *testing.T) {
	s := NewGoalStore(nil)
	in := referenceInput
	in.RatePerUnit = 0

	idx, ok := s.Add(in, Entry{Date: "2024-01-08"})
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0, s.Len())

	_, ok = s.Add(referenceInput, Entry{Date: "2024-01-08", Type: "weekend"})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestGoalStore_AddDefaultsToToday(t *testing.T) {
	s := NewGoalStore(nil)
	s.SetClock(func() time.Time { return time.Date(2024, 5, 17, 9, 0, 0, 0, time.Local) })

	_, ok := s.Add(referenceInput, Entry{})
	require.True(t, ok)
	g, _ := s.Goal(0)
	assert.Equal(t, "2024-05-17", g.Actual.Date)
}

func TestGoalStore_ToggleCreatesAndRemovesRecord(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")

	require.True(t, s.Toggle(0))
	g, _ := s.Goal(0)
	assert.True(t, g.Completed)

	r, ok := s.Records().Get("2024-01-08")
	require.True(t, ok)
	assert.Equal(t, 2000.0, r.Amount)
	assert.Equal(t, 1334, r.Picks)
	assert.Equal(t, 1.5, r.Rate)
	assert.Equal(t, model.ShiftNight, r.ShiftType)

	require.True(t, s.Toggle(0))
	g, _ = s.Goal(0)
	assert.False(t, g.Completed)
	_, ok = s.Records().Get("2024-01-08")
	assert.False(t, ok)
}

func TestGoalStore_ToggleTwiceRestoresRecordState(t *testing.T) {
	// Starting without a record.
	s := newStoreWithGoal(t, "2024-01-08")
	before := s.Records().All()
	require.True(t, s.Toggle(0))
	require.True(t, s.Toggle(0))
	assert.Equal(t, before, s.Records().All())

	// Starting from a completed goal and its record.
	require.True(t, s.Toggle(0))
	before = s.Records().All()
	require.True(t, s.Toggle(0))
	require.True(t, s.Toggle(0))
	assert.Equal(t, before, s.Records().All())
}

func TestGoalStore_ToggleUsesEditedActual(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	require.True(t, s.EditActualPicks(0, 1000))
	require.True(t, s.Toggle(0))

	r, ok := s.Records().Get("2024-01-08")
	require.True(t, ok)
	assert.Equal(t, 1000, r.Picks)
	assert.InDelta(t, 1500, r.Amount, 1e-9)

	g, _ := s.Goal(0)
	assert.Equal(t, 1334, g.Planned.Picks, "planned side is never edited")
}

func TestGoalStore_DeleteGoalKeepsRecord(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	require.True(t, s.Toggle(0))

	require.True(t, s.Delete(0))
	assert.Equal(t, 0, s.Len())
	_, ok := s.Records().Get("2024-01-08")
	assert.True(t, ok, "goal deletion must not remove the committed record")
}

func TestGoalStore_DeleteRecordDecompletesGoal(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	require.True(t, s.Toggle(0))

	require.True(t, s.DeleteRecord("2024-01-08"))

	require.Equal(t, 1, s.Len(), "goal must survive record deletion")
	g, _ := s.Goal(0)
	assert.False(t, g.Completed)
	_, ok := s.Records().Get("2024-01-08")
	assert.False(t, ok)
}

func TestGoalStore_DeleteRecordLeavesOtherGoals(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	_, ok := s.Add(referenceInput, Entry{Date: "2024-01-09"})
	require.True(t, ok)
	require.True(t, s.Toggle(0))
	require.True(t, s.Toggle(1))

	require.True(t, s.DeleteRecord("2024-01-08"))

	g0, _ := s.Goal(0)
	g1, _ := s.Goal(1)
	assert.False(t, g0.Completed)
	assert.True(t, g1.Completed)
	assert.Equal(t, 1, s.Records().Len())
}

func TestGoalStore_EditSync(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")

	require.True(t, s.EditActualAmount(0, 151))
	g, _ := s.Goal(0)
	assert.Equal(t, 151.0, g.Actual.Amount)
	assert.Equal(t, 101, g.Actual.Picks)
	assert.Equal(t, 1.5, g.Actual.Rate)

	require.True(t, s.EditActualPicks(0, 200))
	g, _ = s.Goal(0)
	assert.Equal(t, 200, g.Actual.Picks)
	assert.InDelta(t, float64(g.Actual.Picks)*g.Actual.Rate, g.Actual.Amount, 1e-9)

	require.True(t, s.EditActualAmount(0, 999.99))
	g, _ = s.Goal(0)
	assert.InDelta(t, g.Actual.Amount, float64(g.Actual.Picks)*g.Actual.Rate, g.Actual.Rate)
}

func TestGoalStore_InvalidEditsAreNoops(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	before, _ := s.Goal(0)

	assert.False(t, s.EditActualAmount(0, math.NaN()))
	assert.False(t, s.EditActualAmount(0, math.Inf(-1)))
	assert.False(t, s.EditActualPicks(0, 0))
	assert.False(t, s.EditActualPicks(0, -10))
	assert.False(t, s.EditActualAmount(5, 100))
	assert.False(t, s.EditActualPicks(-1, 100))

	after, _ := s.Goal(0)
	assert.Equal(t, before, after)
}

func TestGoalStore_LookupMissesAreNoops(t *testing.T) {
	s := newStoreWithGoal(t, "2024-01-08")
	assert.False(t, s.Toggle(3))
	assert.False(t, s.Delete(-1))
	assert.False(t, s.DeleteRecord("2030-01-01"))
	assert.False(t, s.DeleteRecord("garbage"))
	assert.Equal(t, 1, s.Len())
}

func TestFromSnapshot_AssignsMissingIDs(t *testing.T) {
	snap := model.Snapshot{
		Goals:   []model.Goal{{Planned: model.ShiftSnapshot{Date: "2024-01-08"}, Actual: model.ShiftSnapshot{Date: "2024-01-08"}}},
		Records: []model.ShiftRecord{{Date: "2024-01-08", Amount: 10}},
	}
	s := FromSnapshot(snap)
	g, ok := s.Goal(0)
	require.True(t, ok)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, 1, s.Records().Len())
}
