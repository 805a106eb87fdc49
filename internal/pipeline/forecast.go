package pipeline

import (
	"math"
	"sort"

	"github.com/theirongolddev/pickplan/internal/model"
)

// ReasonInsufficientData is reported when too few usable points remain.
const ReasonInsufficientData = "insufficient data"

const slopeEpsilon = 1e-9

// ForecastOptions tunes the projection.
type ForecastOptions struct {
	Window     int // most recent records considered
	MinPoints  int // usable points required after filtering
	MonthSteps int // steps past the last point used as "next month"
}

// DefaultForecastOptions returns the stock 10-record window, 3-point minimum
// and 4-step month horizon.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{Window: 10, MinPoints: 3, MonthSteps: 4}
}

func (o ForecastOptions) withDefaults() ForecastOptions {
	def := DefaultForecastOptions()
	if o.Window <= 0 {
		o.Window = def.Window
	}
	if o.MinPoints < 2 {
		o.MinPoints = def.MinPoints
	}
	if o.MonthSteps <= 0 {
		o.MonthSteps = def.MonthSteps
	}
	return o
}

// Forecast projects earnings from the most recent records. The window is
// taken first and only then are zero, negative or non-finite amounts
// discarded, so a run of empty shifts can leave too few points.
func Forecast(records []model.ShiftRecord, opts ForecastOptions) model.Forecast {
	opts = opts.withDefaults()

	dated := make([]model.ShiftRecord, 0, len(records))
	for _, r := range records {
		date, ok := model.NormalizeDate(r.Date)
		if !ok {
			continue
		}
		r.Date = date
		dated = append(dated, r)
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date < dated[j].Date
	})
	if len(dated) > opts.Window {
		dated = dated[len(dated)-opts.Window:]
	}

	amounts := make([]float64, len(dated))
	for i, r := range dated {
		amounts[i] = r.Amount
	}
	return forecastSeries(amounts, opts)
}

// ForecastAmounts runs the projection over a chronological series of amounts.
func ForecastAmounts(amounts []float64, opts ForecastOptions) model.Forecast {
	opts = opts.withDefaults()
	if len(amounts) > opts.Window {
		amounts = amounts[len(amounts)-opts.Window:]
	}
	return forecastSeries(amounts, opts)
}

func forecastSeries(amounts []float64, opts ForecastOptions) model.Forecast {
	ys := make([]float64, 0, len(amounts))
	for _, a := range amounts {
		if model.IsFinite(a) && a > 0 {
			ys = append(ys, a)
		}
	}
	if len(ys) < opts.MinPoints {
		return model.Forecast{Reason: ReasonInsufficientData, Points: len(ys)}
	}

	slope, intercept := leastSquares(ys)
	n := float64(len(ys))

	fc := model.Forecast{
		Available: true,
		Points:    len(ys),
		Slope:     slope,
		Intercept: intercept,
		NextWeek:  project(slope, intercept, n+1),
		NextMonth: project(slope, intercept, n+float64(opts.MonthSteps)),
		Trend:     model.TrendStable,
	}
	switch {
	case slope > slopeEpsilon:
		fc.Trend = model.TrendUp
	case slope < -slopeEpsilon:
		fc.Trend = model.TrendDown
	}
	return fc
}

// leastSquares fits y = slope*x + intercept with x the 0-based position.
func leastSquares(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func project(slope, intercept, x float64) float64 {
	return math.Round(math.Max(0, slope*x+intercept))
}
