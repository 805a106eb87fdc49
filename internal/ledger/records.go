// Package ledger holds the in-memory goal and shift record collections and
// keeps goal completion coupled to record existence.
package ledger

import (
	"sort"

	"github.com/theirongolddev/pickplan/internal/model"
)

// RecordStore maps a local calendar date to the single shift record for it.
type RecordStore struct {
	records map[string]model.ShiftRecord
}

// NewRecordStore builds a store from records. Later records win when two
// share a date. Records with an unusable date are dropped.
func NewRecordStore(records ...model.ShiftRecord) *RecordStore {
	s := &RecordStore{records: make(map[string]model.ShiftRecord, len(records))}
	for _, r := range records {
		s.Upsert(r)
	}
	return s
}

// Upsert stores r, replacing any record already held for its date.
// It reports false if the date cannot be normalized or picks is negative.
func (s *RecordStore) Upsert(r model.ShiftRecord) bool {
	date, ok := model.NormalizeDate(r.Date)
	if !ok || r.Picks < 0 {
		return false
	}
	r.Date = date
	if r.ShiftType == "" {
		r.ShiftType = model.ShiftDay
	}
	s.records[date] = r
	return true
}

// Get returns the record for date.
func (s *RecordStore) Get(date string) (model.ShiftRecord, bool) {
	key, ok := model.NormalizeDate(date)
	if !ok {
		return model.ShiftRecord{}, false
	}
	r, ok := s.records[key]
	return r, ok
}

// DeleteByDate removes the record for date. A miss is a no-op.
// Callers that also own goals should use GoalStore.DeleteRecord so the
// matching goal is decompleted.
func (s *RecordStore) DeleteByDate(date string) bool {
	key, ok := model.NormalizeDate(date)
	if !ok {
		return false
	}
	if _, exists := s.records[key]; !exists {
		return false
	}
	delete(s.records, key)
	return true
}

// EditAmount sets the amount for date and recomputes picks from the rate.
func (s *RecordStore) EditAmount(date string, amount float64) bool {
	key, ok := model.NormalizeDate(date)
	if !ok {
		return false
	}
	r, exists := s.records[key]
	if !exists {
		return false
	}
	picks, ok := model.PicksForAmount(amount, r.Rate)
	if !ok {
		return false
	}
	r.Amount = amount
	r.Picks = picks
	s.records[key] = r
	return true
}

// EditPicks sets the pick count for date and recomputes the amount.
func (s *RecordStore) EditPicks(date string, picks int) bool {
	if picks <= 0 {
		return false
	}
	key, ok := model.NormalizeDate(date)
	if !ok {
		return false
	}
	r, exists := s.records[key]
	if !exists {
		return false
	}
	r.Picks = picks
	r.Amount = float64(picks) * r.Rate
	s.records[key] = r
	return true
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	return len(s.records)
}

// All returns every record sorted by date.
func (s *RecordStore) All() []model.ShiftRecord {
	out := make([]model.ShiftRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// GroupByDate builds a date-keyed view of records for calendar display.
// Later entries replace earlier ones for the same date; nothing accumulates.
func GroupByDate(records []model.ShiftRecord) map[string]model.ShiftRecord {
	out := make(map[string]model.ShiftRecord, len(records))
	for _, r := range records {
		out[r.Date] = r
	}
	return out
}
