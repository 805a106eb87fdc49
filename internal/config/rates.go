package config

import (
	"sort"

	"github.com/theirongolddev/pickplan/internal/model"
)

// RateEntry is an effective-dated per-pick rate. An empty ShiftType applies
// to every shift type; an empty EffectiveFrom applies from the beginning.
type RateEntry struct {
	ShiftType     string  `toml:"shift_type,omitempty" validate:"omitempty,oneof=day night short long"`
	Rate          float64 `toml:"rate" validate:"gt=0"`
	EffectiveFrom string  `toml:"effective_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// RateFor returns the per-pick rate in force for shiftType on date.
// Entries for the exact shift type beat generic ones; among those the
// latest EffectiveFrom not after date wins. An empty date selects the
// latest entry. Without a matching entry the planner default is used,
// and false is returned if that is unset too.
func (c Config) RateFor(shiftType model.ShiftType, date string) (float64, bool) {
	if r, ok := lookupRateAt(c.Rates, string(shiftType), date); ok {
		return r, true
	}
	if r, ok := lookupRateAt(c.Rates, "", date); ok {
		return r, true
	}
	if c.Planner.Rate > 0 {
		return c.Planner.Rate, true
	}
	return 0, false
}

func lookupRateAt(entries []RateEntry, shiftType, date string) (float64, bool) {
	var versions []RateEntry
	for _, e := range entries {
		if e.ShiftType == shiftType && e.Rate > 0 {
			versions = append(versions, e)
		}
	}
	if len(versions) == 0 {
		return 0, false
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].EffectiveFrom < versions[j].EffectiveFrom
	})

	if date == "" {
		return versions[len(versions)-1].Rate, true
	}
	if d, ok := model.NormalizeDate(date); ok {
		date = d
	}

	found := false
	var selected float64
	for _, v := range versions {
		if v.EffectiveFrom == "" || v.EffectiveFrom <= date {
			selected = v.Rate
			found = true
			continue
		}
		break
	}
	return selected, found
}
