package model

import "time"

// PeriodStats holds the totals for records inside one period window.
type PeriodStats struct {
	Period          string
	Start           string
	End             string
	TotalEarnings   float64
	TotalPicks      int
	AverageEarnings float64 // per distinct worked date
	AveragePicks    float64 // per distinct worked date
	Days            int
	Records         []ShiftRecord
}

// WeekdayAverage holds the mean earnings for one day of the week.
type WeekdayAverage struct {
	Weekday time.Weekday
	Average float64
	Count   int
}

// SeriesPoint is one bucket of a week or month earnings series.
type SeriesPoint struct {
	Key    string
	Amount float64
	Count  int
}

// PlanFactPoint compares planned and worked earnings for a date.
type PlanFactPoint struct {
	Date string
	Plan float64
	Fact float64
}

// Trend is the direction of the fitted earnings line.
type Trend string

// Trend directions.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Forecast holds a short-term earnings projection.
// When Available is false the numeric fields are zero and Reason says why.
type Forecast struct {
	Available bool
	Reason    string
	Points    int
	Slope     float64
	Intercept float64
	NextWeek  float64
	NextMonth float64
	Trend     Trend
}

// Snapshot is the full persisted state of one user's data.
type Snapshot struct {
	Goals   []Goal
	Records []ShiftRecord
}
