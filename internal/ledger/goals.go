package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/planner"
)

// Entry holds the user-entered fields that accompany a committed plan.
// Empty Type and Status fall back to day/regular; an empty Date means today.
type Entry struct {
	Date   string
	Type   string
	Status string
	Note   string
}

// GoalStore owns the goal list and the record store it feeds on completion.
//
// Completing a goal creates or overwrites the record for its actual date.
// Deleting that record decompletes the goal. Deleting a goal leaves its
// record in place: once committed the two are allowed to diverge.
type GoalStore struct {
	goals   []model.Goal
	records *RecordStore
	now     func() time.Time
}

// NewGoalStore returns a store over goals that writes completions into records.
func NewGoalStore(records *RecordStore, goals ...model.Goal) *GoalStore {
	if records == nil {
		records = NewRecordStore()
	}
	s := &GoalStore{
		goals:   make([]model.Goal, 0, len(goals)),
		records: records,
		now:     time.Now,
	}
	for _, g := range goals {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		s.goals = append(s.goals, g)
	}
	return s
}

// FromSnapshot rebuilds both stores from persisted state.
func FromSnapshot(snap model.Snapshot) *GoalStore {
	return NewGoalStore(NewRecordStore(snap.Records...), snap.Goals...)
}

// SetClock replaces the source of "today" used for undated entries.
func (s *GoalStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Records returns the record store completions are written to.
func (s *GoalStore) Records() *RecordStore {
	return s.records
}

// Add commits a new goal for the plan computed from in. It is a no-op
// returning false when no plan is available or the entry is unusable.
func (s *GoalStore) Add(in planner.Input, entry Entry) (int, bool) {
	plan, ok := planner.Compute(in)
	if !ok {
		return -1, false
	}

	date := model.DateKey(s.now())
	if entry.Date != "" {
		if date, ok = model.NormalizeDate(entry.Date); !ok {
			return -1, false
		}
	}
	shiftType, ok := model.ParseShiftType(entry.Type)
	if !ok {
		return -1, false
	}
	status, ok := model.ParseShiftStatus(entry.Status)
	if !ok {
		return -1, false
	}

	snap := model.ShiftSnapshot{
		Amount: plan.Input.TargetEarnings,
		Rate:   plan.Input.RatePerUnit,
		Picks:  plan.UnitsNeeded,
		Hours:  plan.Input.WorkHours,
		Date:   date,
		Type:   shiftType,
		Status: status,
		Note:   entry.Note,
	}
	s.goals = append(s.goals, model.Goal{
		ID:      uuid.NewString(),
		Planned: snap,
		Actual:  snap,
	})
	return len(s.goals) - 1, true
}

// Toggle flips the completion of goal i. Completing upserts the record for
// the actual date; decompleting removes whatever record holds that date.
func (s *GoalStore) Toggle(i int) bool {
	if !s.valid(i) {
		return false
	}
	g := &s.goals[i]
	date, ok := model.NormalizeDate(g.Actual.Date)
	if !ok {
		return false
	}

	if !g.Completed {
		rec := model.RecordFromSnapshot(g.Actual)
		rec.Date = date
		if !s.records.Upsert(rec) {
			return false
		}
		g.Completed = true
		return true
	}

	s.records.DeleteByDate(date)
	g.Completed = false
	return true
}

// Delete removes goal i. Its shift record, if any, is kept.
func (s *GoalStore) Delete(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return true
}

// EditActualAmount corrects the actual amount of goal i and derives picks
// from it. The rate is never changed.
func (s *GoalStore) EditActualAmount(i int, amount float64) bool {
	if !s.valid(i) {
		return false
	}
	a := &s.goals[i].Actual
	picks, ok := model.PicksForAmount(amount, a.Rate)
	if !ok {
		return false
	}
	a.Amount = amount
	a.Picks = picks
	return true
}

// EditActualPicks corrects the actual pick count of goal i and derives the
// amount from it.
func (s *GoalStore) EditActualPicks(i int, picks int) bool {
	if !s.valid(i) || picks <= 0 {
		return false
	}
	a := &s.goals[i].Actual
	a.Picks = picks
	a.Amount = float64(picks) * a.Rate
	return true
}

// DeleteRecord removes the record for date and flips every completed goal
// whose actual date matches back to not completed. The goals themselves stay.
func (s *GoalStore) DeleteRecord(date string) bool {
	key, ok := model.NormalizeDate(date)
	if !ok {
		return false
	}
	deleted := s.records.DeleteByDate(key)
	for i := range s.goals {
		g := &s.goals[i]
		if !g.Completed {
			continue
		}
		if d, ok := model.NormalizeDate(g.Actual.Date); ok && d == key {
			g.Completed = false
			deleted = true
		}
	}
	return deleted
}

// Len returns the number of goals.
func (s *GoalStore) Len() int {
	return len(s.goals)
}

// Goal returns a copy of goal i.
func (s *GoalStore) Goal(i int) (model.Goal, bool) {
	if !s.valid(i) {
		return model.Goal{}, false
	}
	return s.goals[i], true
}

// Goals returns a copy of every goal in insertion order.
func (s *GoalStore) Goals() []model.Goal {
	out := make([]model.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Snapshot returns the full state for persistence.
func (s *GoalStore) Snapshot() model.Snapshot {
	return model.Snapshot{
		Goals:   s.Goals(),
		Records: s.records.All(),
	}
}

func (s *GoalStore) valid(i int) bool {
	return i >= 0 && i < len(s.goals)
}
