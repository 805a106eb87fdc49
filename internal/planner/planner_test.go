package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_ReferencePlan(t *testing.T) {
	plan, ok := Compute(Input{
		TargetEarnings:     2000,
		RatePerUnit:        1.5,
		WorkHours:          8,
		BreakIntervalHours: 2,
	})
	require.True(t, ok)

	assert.Equal(t, 1334, plan.UnitsNeeded)
	assert.Equal(t, 167, plan.UnitsPerHour)
	assert.InDelta(t, 250.5, plan.HourlyRate, 1e-9)
	assert.Equal(t, 4, plan.BreaksCount)
	assert.Equal(t, 40, plan.TotalBreakMinutes)
	assert.InDelta(t, 440, plan.EffectiveWorkMinutes, 1e-9)
	assert.Equal(t, 334, plan.UnitsBeforeEachBreak)
}

func TestCompute_PartialIntervalGetsNoBreak(t *testing.T) {
	plan, ok := Compute(Input{TargetEarnings: 1000, RatePerUnit: 2, WorkHours: 7, BreakIntervalHours: 2})
	require.True(t, ok)
	assert.Equal(t, 3, plan.BreaksCount)
	assert.Equal(t, 30, plan.TotalBreakMinutes)
	assert.InDelta(t, 390, plan.EffectiveWorkMinutes, 1e-9)
}

func TestCompute_RejectsIncompleteInput(t *testing.T) {
	valid := Input{TargetEarnings: 2000, RatePerUnit: 1.5, WorkHours: 8, BreakIntervalHours: 2}

	tests := []struct {
		name  string
		apply func(*Input)
	}{
		{"zero target", func(in *Input) { in.TargetEarnings = 0 }},
		{"negative rate", func(in *Input) { in.RatePerUnit = -1 }},
		{"zero rate", func(in *Input) { in.RatePerUnit = 0 }},
		{"NaN hours", func(in *Input) { in.WorkHours = math.NaN() }},
		{"infinite target", func(in *Input) { in.TargetEarnings = math.Inf(1) }},
		{"zero interval", func(in *Input) { in.BreakIntervalHours = 0 }},
		{"overflowing ratio", func(in *Input) { in.TargetEarnings = 1e20 }},
		{"overflowing per hour", func(in *Input) {
			in.TargetEarnings, in.RatePerUnit, in.WorkHours, in.BreakIntervalHours = 1e300, 1e-10, 1, 1
		}},
		{"tiny rate", func(in *Input) { in.RatePerUnit = 1e-12 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.apply(&in)
			_, ok := Compute(in)
			assert.False(t, ok)
		})
	}
}

func TestCompute_Properties(t *testing.T) {
	inputs := []Input{
		{TargetEarnings: 2000, RatePerUnit: 1.5, WorkHours: 8, BreakIntervalHours: 2},
		{TargetEarnings: 3500, RatePerUnit: 2.35, WorkHours: 11.5, BreakIntervalHours: 3},
		{TargetEarnings: 99.99, RatePerUnit: 0.07, WorkHours: 4, BreakIntervalHours: 1},
		{TargetEarnings: 1, RatePerUnit: 10, WorkHours: 12, BreakIntervalHours: 5},
	}

	for _, in := range inputs {
		plan, ok := Compute(in)
		require.True(t, ok)
		assert.Equal(t, int(math.Ceil(in.TargetEarnings/in.RatePerUnit)), plan.UnitsNeeded)
		assert.InDelta(t, float64(plan.UnitsPerHour)*in.RatePerUnit, plan.HourlyRate, 1e-9)
		assert.Equal(t, plan.BreaksCount*BreakMinutes, plan.TotalBreakMinutes)
	}
}

func TestComputeRaw(t *testing.T) {
	plan, ok := ComputeRaw(RawInput{Target: "2000", Rate: "1,5", Hours: " 8 ", BreakInterval: "2"})
	require.True(t, ok)
	assert.Equal(t, 1334, plan.UnitsNeeded)

	bad := []RawInput{
		{Target: "", Rate: "1.5", Hours: "8", BreakInterval: "2"},
		{Target: "2000", Rate: "abc", Hours: "8", BreakInterval: "2"},
		{Target: "2000", Rate: "1.5", Hours: "0", BreakInterval: "2"},
		{Target: "2000", Rate: "1.5", Hours: "8", BreakInterval: "2.5"},
		{Target: "2000", Rate: "1.5", Hours: "8", BreakInterval: ""},
		{Target: "20", Rate: "1.5", Hours: "8", BreakInterval: "-1"},
	}
	for _, raw := range bad {
		_, ok := ComputeRaw(raw)
		assert.False(t, ok, "%+v", raw)
	}
}
