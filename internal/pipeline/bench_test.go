package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/source"
)

// syntheticRecords returns one record per day for n days ending 2024-12-31.
func syntheticRecords(n int) []model.ShiftRecord {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
	records := make([]model.ShiftRecord, n)
	for i := range records {
		day := end.AddDate(0, 0, -i)
		picks := 800 + (i*37)%400
		records[i] = model.ShiftRecord{
			Date:      model.DateKey(day),
			Amount:    float64(picks) * 1.5,
			Picks:     picks,
			Rate:      1.5,
			ShiftType: model.ShiftDay,
		}
	}
	return records
}

func BenchmarkStatsForPeriod(b *testing.B) {
	records := syntheticRecords(3650)
	now := time.Date(2024, 12, 31, 12, 0, 0, 0, time.Local)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = StatsForPeriod(records, PeriodYear, now)
	}
}

func BenchmarkWeeklySeries(b *testing.B) {
	records := syntheticRecords(3650)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WeeklySeries(records)
	}
}

func BenchmarkForecast(b *testing.B) {
	records := syntheticRecords(3650)
	opts := DefaultForecastOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Forecast(records, opts)
	}
}

func BenchmarkLoadFiles(b *testing.B) {
	dir := b.TempDir()
	records := syntheticRecords(3650)
	var paths []string
	for i := 0; i < 8; i++ {
		p := filepath.Join(dir, "export-"+string(rune('a'+i))+".json")
		if err := source.WriteFile(p, model.Snapshot{Records: records[i*400 : (i+1)*400]}); err != nil {
			b.Fatal(err)
		}
		paths = append(paths, p)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := LoadFiles(paths, nil)
		if result.FileErrors > 0 {
			b.Fatal(result.Errors)
		}
	}
}
