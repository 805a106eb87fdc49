package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
)

func TestRateFor_UsesEffectiveDate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rates = []RateEntry{
		{Rate: 2.0, EffectiveFrom: "2025-07-01"},
		{Rate: 1.0, EffectiveFrom: "2025-01-01"},
	}

	apr, ok := cfg.RateFor(model.ShiftDay, "2025-04-15")
	require.True(t, ok, "inside first window")
	assert.Equal(t, 1.0, apr)

	aug, ok := cfg.RateFor(model.ShiftDay, "2025-08-15")
	require.True(t, ok, "inside later window")
	assert.Equal(t, 2.0, aug)

	_, ok = cfg.RateFor(model.ShiftDay, "2024-12-31")
	assert.False(t, ok, "no rate before the first entry without a planner default")
}

func TestRateFor_UsesLatestWhenDateEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rates = []RateEntry{
		{Rate: 1.0, EffectiveFrom: "2025-01-01"},
		{Rate: 3.0, EffectiveFrom: "2025-09-01"},
	}

	rate, ok := cfg.RateFor(model.ShiftNight, "")
	require.True(t, ok)
	assert.Equal(t, 3.0, rate)
}

func TestRateFor_ShiftTypeBeatsGeneric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rates = []RateEntry{
		{Rate: 1.0},
		{ShiftType: "night", Rate: 1.4},
	}

	night, _ := cfg.RateFor(model.ShiftNight, "2025-03-01")
	assert.Equal(t, 1.4, night)
	day, _ := cfg.RateFor(model.ShiftDay, "2025-03-01")
	assert.Equal(t, 1.0, day)
}

func TestRateFor_FallsBackToPlannerDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.Rate = 1.25

	rate, ok := cfg.RateFor(model.ShiftLong, "2025-03-01")
	require.True(t, ok)
	assert.Equal(t, 1.25, rate)
}
