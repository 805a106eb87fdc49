package daemon

import (
	"math"
	"time"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

// Snapshot is the compact earnings state carried by status and events.
type Snapshot struct {
	At                time.Time   `json:"at"`
	Goals             int         `json:"goals"`
	OpenGoals         int         `json:"open_goals"`
	Records           int         `json:"records"`
	WeekEarnings      float64     `json:"week_earnings"`
	WeekPicks         int         `json:"week_picks"`
	WeekDays          int         `json:"week_days"`
	MonthEarnings     float64     `json:"month_earnings"`
	MonthPicks        int         `json:"month_picks"`
	YearEarnings      float64     `json:"year_earnings"`
	ForecastAvailable bool        `json:"forecast_available"`
	ForecastNextWeek  float64     `json:"forecast_next_week"`
	Trend             model.Trend `json:"trend,omitempty"`
}

// Delta is the change between two consecutive snapshots.
type Delta struct {
	Goals         int     `json:"goals"`
	Records       int     `json:"records"`
	WeekEarnings  float64 `json:"week_earnings"`
	WeekPicks     int     `json:"week_picks"`
	MonthEarnings float64 `json:"month_earnings"`
	YearEarnings  float64 `json:"year_earnings"`
}

func (d Delta) isZero() bool {
	if d.Goals != 0 || d.Records != 0 || d.WeekPicks != 0 {
		return false
	}
	for _, f := range []float64{d.WeekEarnings, d.MonthEarnings, d.YearEarnings} {
		if math.Abs(f) >= 1e-9 {
			return false
		}
	}
	return true
}

// Summarize reduces goals and records to the daemon's figures as of now.
func Summarize(data model.Snapshot, now time.Time, opts pipeline.ForecastOptions) Snapshot {
	snap := Snapshot{
		At:      now,
		Goals:   len(data.Goals),
		Records: len(data.Records),
	}
	for _, g := range data.Goals {
		if !g.Completed {
			snap.OpenGoals++
		}
	}

	week := pipeline.StatsForPeriod(data.Records, pipeline.PeriodWeek, now)
	snap.WeekEarnings, snap.WeekPicks, snap.WeekDays = week.TotalEarnings, week.TotalPicks, week.Days

	month := pipeline.StatsForPeriod(data.Records, pipeline.PeriodMonth, now)
	snap.MonthEarnings, snap.MonthPicks = month.TotalEarnings, month.TotalPicks

	snap.YearEarnings = pipeline.StatsForPeriod(data.Records, pipeline.PeriodYear, now).TotalEarnings

	if fc := pipeline.Forecast(data.Records, opts); fc.Available {
		snap.ForecastAvailable = true
		snap.ForecastNextWeek = fc.NextWeek
		snap.Trend = fc.Trend
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	var d Delta
	d.Goals = curr.Goals - prev.Goals
	d.Records = curr.Records - prev.Records
	d.WeekPicks = curr.WeekPicks - prev.WeekPicks
	d.WeekEarnings = curr.WeekEarnings - prev.WeekEarnings
	d.MonthEarnings = curr.MonthEarnings - prev.MonthEarnings
	d.YearEarnings = curr.YearEarnings - prev.YearEarnings
	return d
}
