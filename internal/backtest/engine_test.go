package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"robo-advisor/internal/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// prices builds a series on consecutive days starting 2024-01-02.
func prices(ticker string, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Ticker: ticker}
	d := day("2024-01-02")
	for _, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Date: d, Close: c})
		d = d.AddDate(0, 0, 1)
	}
	return s
}

func TestWeightedReturns_TwoDayExample(t *testing.T) {
	returns := [][]float64{{0.01, -0.02}, {0.00, 0.01}}
	got := WeightedReturns(returns, []float64{0.6, 0.4})
	require.Len(t, got, 2)
	assert.InDelta(t, -0.002, got[0], 1e-12)
	assert.InDelta(t, 0.004, got[1], 1e-12)

	values := Grow(got, 10000)
	assert.InDelta(t, 9980, values[0], 1e-9)
	assert.InDelta(t, 10000*0.998*1.004, values[1], 1e-9)
	assert.InDelta(t, 10019.92, values[1], 0.005)
}

func TestEngine_Run(t *testing.T) {
	series := []model.PriceSeries{
		prices("A", 100, 101, 98.98),
		prices("B", 50, 50, 50.5),
	}
	res, err := New().Run(series, map[string]float64{"A": 0.6, "B": 0.4}, 10000)
	require.NoError(t, err)

	require.Len(t, res.Ledger, 3)
	assert.Equal(t, 0.0, res.Ledger[0].Return, "first day return is 0")
	assert.InDelta(t, 0.006, res.Ledger[1].Return, 1e-12)
	assert.InDelta(t, -0.008, res.Ledger[2].Return, 1e-12)
	assert.InDelta(t, 10000, res.Ledger[0].Value, 1e-9)
	assert.InDelta(t, 10060, res.Ledger[1].Value, 1e-9)
	assert.InDelta(t, 9979.52, res.Ledger[2].Value, 1e-6)

	assert.Equal(t, []string{"A", "B"}, res.Tickers)
	assert.Equal(t, day("2024-01-02"), res.Start)
	assert.Equal(t, day("2024-01-04"), res.End)
	assert.InDelta(t, 9979.52, res.Stats.Final, 1e-6)
	assert.Less(t, res.Stats.TotalReturnPct, 0.0)
	assert.InDelta(t, (9979.52/10060-1)*100, res.Ledger[2].DrawdownPct, 1e-9)
	assert.InDelta(t, res.Ledger[2].DrawdownPct, res.Stats.MaxDrawdownPct, 1e-9)
}

func TestEngine_Run_DroppedTickerKeepsWeights(t *testing.T) {
	// B could not be fetched: A keeps its 0.6 weight, nothing is renormalized.
	res, err := New().Run([]model.PriceSeries{prices("A", 100, 110)}, map[string]float64{"A": 0.6, "B": 0.4}, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 0.06, res.Ledger[1].Return, 1e-12)
	assert.InDelta(t, 10600, res.Stats.Final, 1e-9)
	assert.Equal(t, map[string]float64{"A": 0.6}, res.Weights)
}

func TestEngine_Run_Errors(t *testing.T) {
	_, err := New().Run(nil, map[string]float64{"A": 1}, 10000)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	_, err = New().Run([]model.PriceSeries{prices("A", 1, 2)}, map[string]float64{"A": 1}, 0)
	assert.Error(t, err)
}

func TestDailyReturns_Alignment(t *testing.T) {
	a := model.PriceSeries{Ticker: "A", Points: []model.PricePoint{
		{Date: day("2024-01-02"), Close: 100},
		{Date: day("2024-01-03"), Close: 110},
		{Date: day("2024-01-04"), Close: 121},
	}}
	// B skips 01-03 and starts a day later than A.
	b := model.PriceSeries{Ticker: "B", Points: []model.PricePoint{
		{Date: day("2024-01-03"), Close: 10},
		{Date: day("2024-01-05"), Close: 12},
	}}

	dates, returns := DailyReturns([]model.PriceSeries{a, b})
	require.Equal(t, []time.Time{day("2024-01-02"), day("2024-01-03"), day("2024-01-04"), day("2024-01-05")}, dates)

	assert.Equal(t, []float64{0, 0}, returns[0])
	assert.InDelta(t, 0.1, returns[1][0], 1e-12)
	assert.Equal(t, 0.0, returns[1][1], "before B's first close")
	assert.InDelta(t, 0.1, returns[2][0], 1e-12)
	assert.Equal(t, 0.0, returns[2][1], "B forward-filled")
	assert.Equal(t, 0.0, returns[3][0], "A forward-filled")
	assert.InDelta(t, 0.2, returns[3][1], 1e-12)
}

func TestEngine_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("drawdown is never positive and return sign follows final value", prop.ForAll(
		func(rs []float64) bool {
			values := Grow(rs, 10000)
			if len(values) == 0 {
				return true
			}
			s, err := ComputeStats(values, 10000, DefaultRiskFreePct)
			if err != nil {
				return false
			}
			if s.MaxDrawdownPct > 0 {
				return false
			}
			switch {
			case s.Final > 10000:
				return s.TotalReturnPct > 0
			case s.Final < 10000:
				return s.TotalReturnPct < 0
			default:
				return s.TotalReturnPct == 0
			}
		},
		gen.SliceOf(gen.Float64Range(-0.1, 0.1)),
	))

	properties.Property("weighted returns are linear in the weights", prop.ForAll(
		func(r1, r2, w float64) bool {
			got := WeightedReturns([][]float64{{r1, r2}}, []float64{w, 1 - w})
			return math.Abs(got[0]-(w*r1+(1-w)*r2)) < 1e-12
		},
		gen.Float64Range(-0.5, 0.5),
		gen.Float64Range(-0.5, 0.5),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
