// Package model defines domain types for pickplan goals, shift records and metrics.
package model

import (
	"math"
	"strconv"
	"strings"
)

// ShiftType classifies a shift by its schedule.
type ShiftType string

// Known shift types.
const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
	ShiftShort ShiftType = "short"
	ShiftLong  ShiftType = "long"
)

// ShiftTypes lists every known shift type in display order.
var ShiftTypes = []ShiftType{ShiftDay, ShiftNight, ShiftShort, ShiftLong}

// ParseShiftType returns the shift type for s. Empty input maps to ShiftDay.
func ParseShiftType(s string) (ShiftType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ShiftDay, true
	}
	for _, t := range ShiftTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// ShiftStatus marks whether a shift was worked normally or taken off.
type ShiftStatus string

// Known shift statuses.
const (
	StatusRegular  ShiftStatus = "regular"
	StatusVacation ShiftStatus = "vacation"
	StatusSick     ShiftStatus = "sick"
)

// ShiftStatuses lists every known status in display order.
var ShiftStatuses = []ShiftStatus{StatusRegular, StatusVacation, StatusSick}

// ParseShiftStatus returns the status for s. Empty input maps to StatusRegular.
func ParseShiftStatus(s string) (ShiftStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusRegular, true
	}
	for _, st := range ShiftStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// ShiftSnapshot is one side (planned or actual) of a goal.
type ShiftSnapshot struct {
	Amount float64     `json:"amount"`
	Rate   float64     `json:"rate"`
	Picks  int         `json:"picks"`
	Hours  float64     `json:"hours"`
	Date   string      `json:"date"`
	Type   ShiftType   `json:"type"`
	Status ShiftStatus `json:"status"`
	Note   string      `json:"note"`
}

// Goal is a planned shift together with its actual outcome.
// Planned is fixed at creation; Actual absorbs later corrections.
type Goal struct {
	ID        string        `json:"id,omitempty"`
	Planned   ShiftSnapshot `json:"planned"`
	Actual    ShiftSnapshot `json:"actual"`
	Completed bool          `json:"completed"`
}

// ShiftRecord is a completed shift, keyed by its date.
type ShiftRecord struct {
	Date      string    `json:"date"`
	Amount    float64   `json:"amount"`
	Picks     int       `json:"picks"`
	Rate      float64   `json:"rate"`
	ShiftType ShiftType `json:"shiftType"`
}

// RecordFromSnapshot builds the shift record a completed goal contributes.
func RecordFromSnapshot(s ShiftSnapshot) ShiftRecord {
	return ShiftRecord{
		Date:      s.Date,
		Amount:    s.Amount,
		Picks:     s.Picks,
		Rate:      s.Rate,
		ShiftType: s.Type,
	}
}

// ceilTolerance absorbs binary float error so that e.g. 1.1/0.1 does not
// round up to an extra unit.
const ceilTolerance = 1e-9

// MaxUnits is the largest unit count a plan or record may carry.
const MaxUnits = math.MaxInt32

// CeilUnits rounds x up to a whole unit count. It reports false when x is
// not finite, is negative or rounds above MaxUnits.
func CeilUnits(x float64) (int, bool) {
	return toUnits(math.Ceil(x - ceilTolerance))
}

// FloorUnits rounds x down to a whole unit count, with the same range
// check as CeilUnits.
func FloorUnits(x float64) (int, bool) {
	return toUnits(math.Floor(x + ceilTolerance))
}

func toUnits(f float64) (int, bool) {
	if !IsFinite(f) || f < 0 || f > MaxUnits {
		return 0, false
	}
	return int(f), true
}

// PicksForAmount returns the whole number of picks needed to earn amount at rate.
// It reports false when the division is undefined, the result would be
// negative or it exceeds MaxUnits.
func PicksForAmount(amount, rate float64) (int, bool) {
	if !IsFinite(amount) || amount < 0 || !IsFinite(rate) || rate <= 0 {
		return 0, false
	}
	return CeilUnits(amount / rate)
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseAmount parses a money amount typed by the user. A comma is accepted
// as the decimal separator.
func ParseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// ParsePicks parses a positive whole pick count typed by the user.
func ParsePicks(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > MaxUnits {
		return 0, false
	}
	return n, true
}
