package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
)

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.Local)
}

func rec(date string, amount float64, picks int) model.ShiftRecord {
	return model.ShiftRecord{Date: date, Amount: amount, Picks: picks, Rate: 1, ShiftType: model.ShiftDay}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
	}{
		{"", PeriodWeek},
		{"week", PeriodWeek},
		{"Month", PeriodMonth},
		{" y ", PeriodYear},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePeriod("fortnight")
	assert.Error(t, err)
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		now    time.Time
		want   string
	}{
		{"wednesday", PeriodWeek, localDay(2024, time.January, 10), "2024-01-08"},
		{"monday", PeriodWeek, localDay(2024, time.January, 8), "2024-01-08"},
		{"sunday belongs to previous monday", PeriodWeek, localDay(2024, time.January, 14), "2024-01-08"},
		{"week across year boundary", PeriodWeek, localDay(2025, time.January, 1), "2024-12-30"},
		{"month", PeriodMonth, localDay(2024, time.February, 29), "2024-02-01"},
		{"year", PeriodYear, localDay(2024, time.July, 4), "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodStart(tt.period, tt.now)
			assert.Equal(t, tt.want, model.DateKey(got))
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestPeriodEnd(t *testing.T) {
	assert.Equal(t, "2024-01-14", model.DateKey(PeriodEnd(PeriodWeek, localDay(2024, time.January, 10))))
	assert.Equal(t, "2024-02-29", model.DateKey(PeriodEnd(PeriodMonth, localDay(2024, time.February, 3))))
	assert.Equal(t, "2024-12-31", model.DateKey(PeriodEnd(PeriodYear, localDay(2024, time.July, 4))))
}

func TestStatsForPeriod_WeekWindow(t *testing.T) {
	records := []model.ShiftRecord{
		rec("2024-01-01", 100, 100),
		rec("2024-01-08", 250, 200),
		rec("2024-01-11", 999, 999), // after "now"
	}
	stats := StatsForPeriod(records, PeriodWeek, localDay(2024, time.January, 10))

	assert.Equal(t, "2024-01-08", stats.Start)
	assert.Equal(t, "2024-01-10", stats.End)
	require.Len(t, stats.Records, 1)
	assert.Equal(t, "2024-01-08", stats.Records[0].Date)
	assert.Equal(t, 250.0, stats.TotalEarnings)
	assert.Equal(t, 200, stats.TotalPicks)
	assert.Equal(t, 1, stats.Days)
	assert.Equal(t, 250.0, stats.AverageEarnings)
	assert.Equal(t, 200.0, stats.AveragePicks)
}

func TestStatsForPeriod_WeekStartsMonday(t *testing.T) {
	records := []model.ShiftRecord{
		rec("2024-01-08", 70, 35),
		rec("2024-01-03", 40, 20),
	}
	stats := StatsForPeriod(records, PeriodWeek, localDay(2024, time.January, 10))

	require.Len(t, stats.Records, 1)
	assert.Equal(t, "2024-01-08", stats.Records[0].Date)
	assert.Equal(t, 70.0, stats.TotalEarnings)
	assert.Equal(t, 35, stats.TotalPicks)
}

func TestStatsForPeriod_AveragesByDistinctDates(t *testing.T) {
	// Raw lists may repeat a date; averages still divide by worked days.
	records := []model.ShiftRecord{
		rec("2024-03-04", 100, 10),
		rec("2024-03-04", 50, 5),
		rec("2024-03-05", 150, 15),
	}
	stats := StatsForPeriod(records, PeriodMonth, localDay(2024, time.March, 20))
	assert.Equal(t, 2, stats.Days)
	assert.Equal(t, 300.0, stats.TotalEarnings)
	assert.Equal(t, 150.0, stats.AverageEarnings)
	assert.Equal(t, 15.0, stats.AveragePicks)
}

func TestStatsForPeriod_Empty(t *testing.T) {
	stats := StatsForPeriod(nil, PeriodYear, localDay(2024, time.March, 20))
	assert.Equal(t, 0, stats.Days)
	assert.Zero(t, stats.AverageEarnings)
	assert.Zero(t, stats.AveragePicks)
	assert.Equal(t, "2024-01-01", stats.Start)
}

func TestStatsForPeriod_IgnoresBadDates(t *testing.T) {
	records := []model.ShiftRecord{rec("someday", 100, 1), rec("2024-03-04", 10, 1)}
	stats := StatsForPeriod(records, PeriodMonth, localDay(2024, time.March, 20))
	assert.Equal(t, 10.0, stats.TotalEarnings)
}

func TestWeekdayAverages(t *testing.T) {
	records := []model.ShiftRecord{
		rec("2024-01-08", 100, 0), // Monday
		rec("2024-01-15", 200, 0), // Monday
		rec("2024-01-14", 80, 0),  // Sunday
	}
	avgs := WeekdayAverages(records)
	require.Len(t, avgs, 7)

	assert.Equal(t, time.Sunday, avgs[0].Weekday)
	assert.Equal(t, 80.0, avgs[0].Average)
	assert.Equal(t, time.Monday, avgs[1].Weekday)
	assert.Equal(t, 150.0, avgs[1].Average)
	assert.Equal(t, 2, avgs[1].Count)
	for _, wd := range avgs[2:] {
		assert.Zero(t, wd.Average, wd.Weekday.String())
		assert.Zero(t, wd.Count)
	}
}

func TestWeekdayAverages_TwoMondays(t *testing.T) {
	avgs := WeekdayAverages([]model.ShiftRecord{
		rec("2024-01-01", 100, 0),
		rec("2024-01-08", 200, 0),
	})
	require.Len(t, avgs, 7)
	for _, wd := range avgs {
		if wd.Weekday == time.Monday {
			assert.Equal(t, 150.0, wd.Average)
			continue
		}
		assert.Zero(t, wd.Average, wd.Weekday.String())
	}
}

func TestWeekdayAverages_Empty(t *testing.T) {
	avgs := WeekdayAverages(nil)
	require.Len(t, avgs, 7)
	for _, wd := range avgs {
		assert.Zero(t, wd.Average)
	}
}

func TestWeeklySeries_ISOKeys(t *testing.T) {
	records := []model.ShiftRecord{
		rec("2024-12-30", 10, 0), // ISO 2025-W01
		rec("2025-01-02", 5, 0),  // ISO 2025-W01
		rec("2024-03-05", 1, 0),  // ISO 2024-W10
		rec("2024-01-01", 2, 0),  // ISO 2024-W01
	}
	series := WeeklySeries(records)
	require.Len(t, series, 3)
	assert.Equal(t, "2024-W01", series[0].Key)
	assert.Equal(t, "2024-W10", series[1].Key)
	assert.Equal(t, "2025-W01", series[2].Key)
	assert.Equal(t, 15.0, series[2].Amount)
	assert.Equal(t, 2, series[2].Count)
}

func TestMonthlySeries(t *testing.T) {
	records := []model.ShiftRecord{
		rec("2024-02-10", 10, 0),
		rec("2024-01-31", 20, 0),
		rec("2024-02-01", 30, 0),
		rec("bogus", 1000, 0),
	}
	series := MonthlySeries(records)
	require.Len(t, series, 2)
	assert.Equal(t, model.SeriesPoint{Key: "2024-01", Amount: 20, Count: 1}, series[0])
	assert.Equal(t, model.SeriesPoint{Key: "2024-02", Amount: 40, Count: 2}, series[1])
}

func TestPlanVsFact(t *testing.T) {
	goal := func(date string, amount float64) model.Goal {
		s := model.ShiftSnapshot{Amount: amount, Date: date}
		return model.Goal{Planned: s, Actual: s}
	}
	goals := []model.Goal{
		goal("2024-01-09", 300),
		goal("2024-01-08", 200),
		goal("2024-01-08", 50),
	}
	records := []model.ShiftRecord{
		rec("2024-01-08", 180, 0),
		rec("2024-01-10", 90, 0),
	}

	points := PlanVsFact(goals, records)
	assert.Equal(t, []model.PlanFactPoint{
		{Date: "2024-01-08", Plan: 250, Fact: 180},
		{Date: "2024-01-09", Plan: 300, Fact: 0},
		{Date: "2024-01-10", Plan: 0, Fact: 90},
	}, points)
}

func TestFilterByDate_Inclusive(t *testing.T) {
	records := []model.ShiftRecord{rec("2024-01-07", 1, 0), rec("2024-01-08", 2, 0), rec("2024-01-10", 3, 0), rec("2024-01-11", 4, 0)}
	got := FilterByDate(records, "2024-01-08", "2024-01-10")
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-08", got[0].Date)
	assert.Equal(t, "2024-01-10", got[1].Date)
}
