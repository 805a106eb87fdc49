package pipeline

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
)

func dailyRecords(amounts ...float64) []model.ShiftRecord {
	records := make([]model.ShiftRecord, len(amounts))
	for i, a := range amounts {
		records[i] = model.ShiftRecord{Date: fmt.Sprintf("2024-01-%02d", i+1), Amount: a}
	}
	return records
}

func TestForecast_LinearSeries(t *testing.T) {
	fc := Forecast(dailyRecords(100, 110, 120, 130), DefaultForecastOptions())
	require.True(t, fc.Available)
	assert.Equal(t, 4, fc.Points)
	assert.InDelta(t, 10, fc.Slope, 1e-9)
	assert.InDelta(t, 100, fc.Intercept, 1e-9)
	assert.Equal(t, 150.0, fc.NextWeek)
	assert.Equal(t, 180.0, fc.NextMonth)
	assert.Equal(t, model.TrendUp, fc.Trend)
}

func TestForecast_InsufficientData(t *testing.T) {
	fc := Forecast(dailyRecords(100, 200), DefaultForecastOptions())
	assert.False(t, fc.Available)
	assert.Equal(t, ReasonInsufficientData, fc.Reason)
	assert.Zero(t, fc.NextWeek)
	assert.Zero(t, fc.NextMonth)
}

func TestForecast_UnusableAmountsDroppedAfterWindow(t *testing.T) {
	// Twelve records: the two oldest are usable but fall outside the
	// window, and the ten most recent hold only two positive amounts.
	amounts := []float64{500, 500, 0, 0, -5, 0, math.NaN(), 0, 0, 0, 120, 130}
	fc := Forecast(dailyRecords(amounts...), DefaultForecastOptions())
	assert.False(t, fc.Available)
	assert.Equal(t, 2, fc.Points)
}

func TestForecast_UsesMostRecentByDate(t *testing.T) {
	records := dailyRecords(100, 110, 120, 130)
	records = append(records, model.ShiftRecord{Date: "2023-06-01", Amount: 9999})
	fc := Forecast(records, ForecastOptions{Window: 4, MinPoints: 3, MonthSteps: 4})
	require.True(t, fc.Available)
	assert.InDelta(t, 10, fc.Slope, 1e-9)
	assert.Equal(t, 150.0, fc.NextWeek)
}

func TestForecast_FlooredAtZero(t *testing.T) {
	fc := ForecastAmounts([]float64{300, 200, 100}, DefaultForecastOptions())
	require.True(t, fc.Available)
	assert.Equal(t, model.TrendDown, fc.Trend)
	assert.Zero(t, fc.NextMonth)
	assert.GreaterOrEqual(t, fc.NextWeek, 0.0)
}

func TestForecast_FlatIsStable(t *testing.T) {
	fc := ForecastAmounts([]float64{120, 120, 120, 120}, DefaultForecastOptions())
	require.True(t, fc.Available)
	assert.Equal(t, model.TrendStable, fc.Trend)
	assert.Equal(t, 120.0, fc.NextWeek)
}

func TestForecastOptions_ZeroValueUsesDefaults(t *testing.T) {
	a := ForecastAmounts([]float64{100, 110, 120, 130}, ForecastOptions{})
	b := ForecastAmounts([]float64{100, 110, 120, 130}, DefaultForecastOptions())
	assert.Equal(t, b, a)
}
