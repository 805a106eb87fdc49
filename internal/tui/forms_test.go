package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/pickplan/internal/config"
)

func TestNewPlanFormUsesEffectiveRate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.Rate = 1.5
	cfg.Rates = []config.RateEntry{
		{ShiftType: "day", Rate: 2, EffectiveFrom: "2024-01-01"},
		{ShiftType: "day", Rate: 3, EffectiveFrom: "2024-06-01"},
	}

	p := NewPlanForm(cfg, "2024-03-15")
	assert.Equal(t, "2", p.Rate)
	assert.Equal(t, "8", p.Hours)
	assert.Equal(t, "2", p.BreakInterval)
	assert.Equal(t, "2024-03-15", p.Date)

	p = NewPlanForm(cfg, "2023-03-15")
	assert.Equal(t, "1.5", p.Rate, "before any entry the planner default applies")
}

func TestNewPlanFormWithoutRateLeavesItBlank(t *testing.T) {
	p := NewPlanForm(config.DefaultConfig(), "2024-03-15")
	assert.Empty(t, p.Rate)

	raw := p.Raw()
	assert.Empty(t, raw.Rate)
	assert.Equal(t, "8", raw.Hours)
}

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewSetupValues(cfg)
	assert.Empty(t, v.Rate, "unset default rate shows blank")

	v.Rate = "2,5"
	v.WorkHours = "10"
	v.BreakInterval = "3"
	v.ShiftType = "night"
	v.Period = "month"
	v.Theme = "catppuccin-mocha"
	v.Apply(&cfg)

	assert.Equal(t, 2.5, cfg.Planner.Rate)
	assert.Equal(t, 10.0, cfg.Planner.WorkHours)
	assert.Equal(t, 3, cfg.Planner.BreakInterval)
	assert.Equal(t, "night", cfg.Planner.ShiftType)
	assert.Equal(t, "month", cfg.General.DefaultPeriod)
	assert.Equal(t, "catppuccin-mocha", cfg.Appearance.Theme)

	v.Rate = ""
	v.Apply(&cfg)
	assert.Zero(t, cfg.Planner.Rate, "blank rate clears the default")
}
