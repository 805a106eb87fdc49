// Package pipeline aggregates shift records into period statistics, series
// and forecasts, and orchestrates loading snapshots from export files.
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/pickplan/internal/model"
)

// Period is an aggregation window anchored at "now".
type Period string

// Supported periods.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps a user-entered period name to a Period. Empty means week.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "week", "w":
		return PeriodWeek, nil
	case "month", "m":
		return PeriodMonth, nil
	case "year", "y":
		return PeriodYear, nil
	}
	return "", fmt.Errorf("unknown period %q (want week, month or year)", s)
}

// PeriodStart returns the local midnight that opens the period containing now.
// Weeks start on Monday; a Sunday belongs to the week of the preceding Monday.
func PeriodStart(p Period, now time.Time) time.Time {
	now = now.Local()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch p {
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	default:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		return day.AddDate(0, 0, -offset)
	}
}

// PeriodEnd returns the last calendar day of the period containing now.
func PeriodEnd(p Period, now time.Time) time.Time {
	start := PeriodStart(p, now)
	switch p {
	case PeriodMonth:
		return start.AddDate(0, 1, -1)
	case PeriodYear:
		return start.AddDate(1, 0, -1)
	default:
		return start.AddDate(0, 0, 6)
	}
}

// FilterByDate returns records whose date lies in [start, end] inclusive.
// Both bounds are YYYY-MM-DD keys; records with unusable dates are dropped.
func FilterByDate(records []model.ShiftRecord, start, end string) []model.ShiftRecord {
	var result []model.ShiftRecord
	for _, r := range records {
		date, ok := model.NormalizeDate(r.Date)
		if !ok {
			continue
		}
		if date < start || date > end {
			continue
		}
		r.Date = date
		result = append(result, r)
	}
	return result
}

// StatsForPeriod totals the records from the start of the period through today.
// Averages divide by the number of distinct worked dates.
func StatsForPeriod(records []model.ShiftRecord, p Period, now time.Time) model.PeriodStats {
	start := model.DateKey(PeriodStart(p, now))
	end := model.DateKey(now)

	stats := model.PeriodStats{
		Period: string(p),
		Start:  start,
		End:    end,
	}
	filtered := FilterByDate(records, start, end)
	sortRecords(filtered)

	days := make(map[string]struct{})
	for _, r := range filtered {
		stats.TotalEarnings += r.Amount
		stats.TotalPicks += r.Picks
		days[r.Date] = struct{}{}
	}
	stats.Days = len(days)
	stats.Records = filtered

	if stats.Days > 0 {
		d := float64(stats.Days)
		stats.AverageEarnings = stats.TotalEarnings / d
		stats.AveragePicks = float64(stats.TotalPicks) / d
	}
	return stats
}

// WeekdayAverages returns the mean amount per day of week over all records,
// Sunday first. Days without records report zero.
func WeekdayAverages(records []model.ShiftRecord) []model.WeekdayAverage {
	var sums [7]float64
	var counts [7]int
	for _, r := range records {
		t, ok := recordDay(r)
		if !ok {
			continue
		}
		wd := t.Weekday()
		sums[wd] += r.Amount
		counts[wd]++
	}

	out := make([]model.WeekdayAverage, 7)
	for i := range out {
		out[i].Weekday = time.Weekday(i)
		out[i].Count = counts[i]
		if counts[i] > 0 {
			out[i].Average = sums[i] / float64(counts[i])
		}
	}
	return out
}

// WeeklySeries sums amounts per ISO week, keyed YYYY-Www, in key order.
func WeeklySeries(records []model.ShiftRecord) []model.SeriesPoint {
	return series(records, func(t time.Time) string {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	})
}

// MonthlySeries sums amounts per calendar month, keyed YYYY-MM, in key order.
func MonthlySeries(records []model.ShiftRecord) []model.SeriesPoint {
	return series(records, func(t time.Time) string {
		return t.Format("2006-01")
	})
}

func series(records []model.ShiftRecord, keyFn func(time.Time) string) []model.SeriesPoint {
	buckets := make(map[string]*model.SeriesPoint)
	for _, r := range records {
		t, ok := recordDay(r)
		if !ok {
			continue
		}
		key := keyFn(t)
		sp, ok := buckets[key]
		if !ok {
			sp = &model.SeriesPoint{Key: key}
			buckets[key] = sp
		}
		sp.Amount += r.Amount
		sp.Count++
	}

	out := make([]model.SeriesPoint, 0, len(buckets))
	for _, sp := range buckets {
		out = append(out, *sp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// PlanVsFact pairs planned goal amounts with recorded amounts per date over
// the sorted union of dates. A missing side is zero. Goals planned for the
// same date are summed.
func PlanVsFact(goals []model.Goal, records []model.ShiftRecord) []model.PlanFactPoint {
	points := make(map[string]*model.PlanFactPoint)
	get := func(date string) *model.PlanFactPoint {
		p, ok := points[date]
		if !ok {
			p = &model.PlanFactPoint{Date: date}
			points[date] = p
		}
		return p
	}

	for _, g := range goals {
		date, ok := model.NormalizeDate(g.Planned.Date)
		if !ok {
			continue
		}
		get(date).Plan += g.Planned.Amount
	}
	for _, r := range records {
		date, ok := model.NormalizeDate(r.Date)
		if !ok {
			continue
		}
		get(date).Fact += r.Amount
	}

	out := make([]model.PlanFactPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

func recordDay(r model.ShiftRecord) (time.Time, bool) {
	date, ok := model.NormalizeDate(r.Date)
	if !ok {
		return time.Time{}, false
	}
	return model.ParseDate(date)
}

func sortRecords(records []model.ShiftRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}
