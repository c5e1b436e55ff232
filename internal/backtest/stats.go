package backtest

import (
	"errors"
	"math"
	"time"
)

// TradingDaysPerYear annualizes daily figures.
const TradingDaysPerYear = 252

// Stats are point-in-time statistics of a value series.
type Stats struct {
	Initial        float64
	Final          float64
	Profit         float64
	TotalReturnPct float64

	TradingDays int
	Years       float64

	// AnnualizedReturn is a fraction (0.05 = 5%).
	AnnualizedReturn float64
	VolatilityPct    float64
	Sharpe           float64
	MaxDrawdownPct   float64
}

// AnnualizedReturnPct returns AnnualizedReturn as a percentage.
func (s Stats) AnnualizedReturnPct() float64 { return s.AnnualizedReturn * 100 }

// ComputeStats derives the statistics of values, a daily value series that
// started from initial.
//
// Volatility is the sample standard deviation of the day-over-day changes of
// values, annualized. A flat or single-point series has zero volatility and a
// Sharpe ratio of 0.
func ComputeStats(values []float64, initial, riskFreePct float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, errors.New("empty value series")
	}
	if initial <= 0 {
		return Stats{}, errors.New("initial must be > 0")
	}
	final := values[len(values)-1]
	growth := final / initial

	s := Stats{
		Initial:        initial,
		Final:          final,
		Profit:         final - initial,
		TotalReturnPct: (growth - 1) * 100,
		TradingDays:    len(values),
		Years:          float64(len(values)) / TradingDaysPerYear,
	}
	s.AnnualizedReturn = math.Pow(growth, 1/s.Years) - 1

	changes := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			changes = append(changes, values[i]/values[i-1]-1)
		}
	}
	s.VolatilityPct = stdev(changes) * math.Sqrt(TradingDaysPerYear) * 100
	if s.VolatilityPct > 0 {
		s.Sharpe = (s.AnnualizedReturnPct() - riskFreePct) / s.VolatilityPct
	}
	s.MaxDrawdownPct = MaxDrawdownPct(values)
	return s, nil
}

// MaxDrawdownPct is min_t (v_t / max_{k≤t} v_k − 1) × 100; never positive.
func MaxDrawdownPct(values []float64) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, v := range values {
		peak = math.Max(peak, v)
		if peak <= 0 {
			continue
		}
		if dd := (v/peak - 1) * 100; dd < worst {
			worst = dd
		}
	}
	return worst
}

// stdev is the sample standard deviation (n−1), 0 for fewer than two values.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// YearlyReturns takes the last value of each calendar year and returns the
// year-over-year change. The first year has no prior value and is omitted.
func YearlyReturns(dates []time.Time, values []float64) []YearReturn {
	type last struct {
		year  int
		value float64
	}
	var years []last
	for i, d := range dates {
		if i >= len(values) {
			break
		}
		y := d.Year()
		if n := len(years); n > 0 && years[n-1].year == y {
			years[n-1].value = values[i]
			continue
		}
		years = append(years, last{year: y, value: values[i]})
	}
	out := make([]YearReturn, 0, len(years))
	for i := 1; i < len(years); i++ {
		prev := years[i-1].value
		if prev == 0 {
			continue
		}
		out = append(out, YearReturn{Year: years[i].year, ReturnPct: (years[i].value/prev - 1) * 100})
	}
	return out
}
