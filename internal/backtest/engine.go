package backtest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"robo-advisor/internal/model"
)

// DefaultRiskFreePct is the annual risk-free rate used for the Sharpe ratio.
const DefaultRiskFreePct = 2.0

type Engine struct {
	RiskFreePct float64
}

func New() *Engine { return &Engine{RiskFreePct: DefaultRiskFreePct} }

// Run simulates a portfolio over already-fetched closes.
//
// Weights of tickers absent from series are ignored, not redistributed: the
// surviving holdings keep their original weights.
func (e *Engine) Run(series []model.PriceSeries, weights map[string]float64, initial float64) (*Result, error) {
	if initial <= 0 || math.IsNaN(initial) || math.IsInf(initial, 0) {
		return nil, fmt.Errorf("initial investment must be > 0, got %v", initial)
	}
	if len(series) == 0 {
		return nil, ErrDataUnavailable
	}

	sorted := append([]model.PriceSeries(nil), series...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Ticker < sorted[j].Ticker })

	dates, returns := DailyReturns(sorted)
	if len(dates) == 0 {
		return nil, ErrDataUnavailable
	}

	tickers := make([]string, len(sorted))
	w := make([]float64, len(sorted))
	used := make(map[string]float64, len(sorted))
	for i, s := range sorted {
		tickers[i] = s.Ticker
		w[i] = weights[s.Ticker]
		used[s.Ticker] = w[i]
	}

	portfolio := WeightedReturns(returns, w)
	values := Grow(portfolio, initial)

	ledger := make([]LedgerRow, len(values))
	runMax := math.Inf(-1)
	for i, v := range values {
		runMax = math.Max(runMax, v)
		ledger[i] = LedgerRow{
			Index:       i,
			Date:        dates[i],
			Return:      portfolio[i],
			Value:       v,
			RunningMax:  runMax,
			DrawdownPct: (v/runMax - 1) * 100,
		}
	}

	stats, err := ComputeStats(values, initial, e.RiskFreePct)
	if err != nil {
		return nil, err
	}

	return &Result{
		Tickers: tickers,
		Weights: used,
		Start:   dates[0],
		End:     dates[len(dates)-1],
		Ledger:  ledger,
		Stats:   stats,
		Yearly:  YearlyReturns(dates, values),
		Series:  sorted,
	}, nil
}

// DailyReturns aligns the series on the union of their dates and returns,
// for each date, the percent change of every ticker's close (in series order).
// A missing close is carried forward from the ticker's previous close. The
// first date, and any date before a ticker's first close, has return 0.
func DailyReturns(series []model.PriceSeries) ([]time.Time, [][]float64) {
	seen := map[time.Time]bool{}
	for _, s := range series {
		for _, p := range s.Points {
			seen[model.Day(p.Date)] = true
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	// closes[t][d], NaN where the ticker has no close on that date.
	closes := make([][]float64, len(series))
	for t, s := range series {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, p := range s.Points {
			col[index[model.Day(p.Date)]] = p.Close
		}
		// Forward-fill.
		for i := 1; i < len(col); i++ {
			if math.IsNaN(col[i]) {
				col[i] = col[i-1]
			}
		}
		closes[t] = col
	}

	returns := make([][]float64, len(dates))
	for i := range dates {
		row := make([]float64, len(series))
		if i > 0 {
			for t := range series {
				prev, cur := closes[t][i-1], closes[t][i]
				if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
					continue
				}
				row[t] = cur/prev - 1
			}
		}
		returns[i] = row
	}
	return dates, returns
}

// WeightedReturns is the weighted sum of each day's per-ticker returns.
// returns[d][t] is ticker t's return on day d; weights[t] its weight.
func WeightedReturns(returns [][]float64, weights []float64) []float64 {
	out := make([]float64, len(returns))
	for d, row := range returns {
		sum := 0.0
		for t, r := range row {
			if t < len(weights) {
				sum += weights[t] * r
			}
		}
		out[d] = sum
	}
	return out
}

// Grow compounds daily returns: value_d = initial × Π_{k≤d} (1 + r_k).
func Grow(returns []float64, initial float64) []float64 {
	out := make([]float64, len(returns))
	v := initial
	for i, r := range returns {
		v *= 1 + r
		out[i] = v
	}
	return out
}

// ErrDataUnavailable means no ticker of the portfolio could be fetched.
var ErrDataUnavailable = errors.New("historical data unavailable")
