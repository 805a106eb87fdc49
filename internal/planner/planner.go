// Package planner derives a shift work plan from a target earnings amount.
package planner

import (
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/pickplan/internal/model"
)

// BreakMinutes is the length of one scheduled break.
const BreakMinutes = 10

// Input holds the numbers a plan is computed from.
type Input struct {
	TargetEarnings     float64
	RatePerUnit        float64
	WorkHours          float64
	BreakIntervalHours int
}

// RawInput is calculator input as typed into a form.
type RawInput struct {
	Target        string
	Rate          string
	Hours         string
	BreakInterval string
}

// Plan is the derived work plan. It is a value and never changes after Compute.
type Plan struct {
	Input                Input
	UnitsNeeded          int
	UnitsPerHour         int
	HourlyRate           float64
	BreaksCount          int
	TotalBreakMinutes    int
	EffectiveWorkMinutes float64
	UnitsBeforeEachBreak int
}

// Valid reports whether every field is present and positive.
func (in Input) Valid() bool {
	return positive(in.TargetEarnings) &&
		positive(in.RatePerUnit) &&
		positive(in.WorkHours) &&
		in.BreakIntervalHours > 0
}

// Compute returns the plan for in, or false when any input is missing,
// zero, negative or not a finite number, or when a unit count would exceed
// model.MaxUnits. It never panics on partial input.
func Compute(in Input) (Plan, bool) {
	if !in.Valid() {
		return Plan{}, false
	}

	interval := float64(in.BreakIntervalHours)

	// Partial units cannot be delivered, so unit counts round up.
	unitsNeeded, ok := model.CeilUnits(in.TargetEarnings / in.RatePerUnit)
	if !ok {
		return Plan{}, false
	}
	unitsPerHour, ok := model.CeilUnits(float64(unitsNeeded) / in.WorkHours)
	if !ok {
		return Plan{}, false
	}
	perBreak, ok := model.CeilUnits(float64(unitsNeeded) / (in.WorkHours / interval))
	if !ok {
		return Plan{}, false
	}

	// A partial interval does not earn an extra break.
	breaks, ok := model.FloorUnits(in.WorkHours / interval)
	if !ok {
		return Plan{}, false
	}
	breakMinutes := breaks * BreakMinutes

	return Plan{
		Input:                in,
		UnitsNeeded:          unitsNeeded,
		UnitsPerHour:         unitsPerHour,
		HourlyRate:           float64(unitsPerHour) * in.RatePerUnit,
		BreaksCount:          breaks,
		TotalBreakMinutes:    breakMinutes,
		EffectiveWorkMinutes: in.WorkHours*60 - float64(breakMinutes),
		UnitsBeforeEachBreak: perBreak,
	}, true
}

// Parse converts form strings into an Input. It reports false if any field
// is empty or not a number, or if the break interval is not a whole number.
func (r RawInput) Parse() (Input, bool) {
	target, ok := model.ParseAmount(r.Target)
	if !ok {
		return Input{}, false
	}
	rate, ok := model.ParseAmount(r.Rate)
	if !ok {
		return Input{}, false
	}
	hours, ok := model.ParseAmount(r.Hours)
	if !ok {
		return Input{}, false
	}
	interval, ok := parseWholeHours(r.BreakInterval)
	if !ok {
		return Input{}, false
	}

	in := Input{
		TargetEarnings:     target,
		RatePerUnit:        rate,
		WorkHours:          hours,
		BreakIntervalHours: interval,
	}
	return in, in.Valid()
}

// ComputeRaw parses r and computes its plan.
func ComputeRaw(r RawInput) (Plan, bool) {
	in, ok := r.Parse()
	if !ok {
		return Plan{}, false
	}
	return Compute(in)
}

func parseWholeHours(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !model.IsFinite(f) || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func positive(f float64) bool {
	return model.IsFinite(f) && f > 0
}
