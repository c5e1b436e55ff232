package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_ConstantReturnOverOneYear(t *testing.T) {
	const r = 0.0004
	rs := make([]float64, TradingDaysPerYear)
	for i := range rs {
		rs[i] = r
	}
	values := Grow(rs, 10000)

	s, err := ComputeStats(values, 10000, DefaultRiskFreePct)
	require.NoError(t, err)
	assert.Equal(t, TradingDaysPerYear, s.TradingDays)
	assert.InDelta(t, 1.0, s.Years, 1e-12)
	want := math.Pow(1+r, TradingDaysPerYear) - 1
	assert.InDelta(t, want, s.AnnualizedReturn, 1e-9)
	assert.InDelta(t, want*100, s.TotalReturnPct, 1e-7)
	assert.InDelta(t, 0, s.VolatilityPct, 1e-6)
	assert.Equal(t, 0.0, s.MaxDrawdownPct)
}

func TestComputeStats_KnownSeries(t *testing.T) {
	values := []float64{100, 110, 99, 108.9}
	s, err := ComputeStats(values, 100, 2)
	require.NoError(t, err)

	assert.InDelta(t, 8.9, s.TotalReturnPct, 1e-9)
	assert.InDelta(t, 8.9, s.Profit, 1e-9)
	assert.InDelta(t, 4.0/252, s.Years, 1e-12)
	assert.InDelta(t, 183.30302779823367, s.VolatilityPct, 1e-6)
	assert.InDelta(t, 214.15746790375783, s.AnnualizedReturn, 1e-6)
	assert.InDelta(t, 116.82156616608887, s.Sharpe, 1e-6)
	assert.InDelta(t, -10, s.MaxDrawdownPct, 1e-9)
}

func TestComputeStats_FlatSeries(t *testing.T) {
	s, err := ComputeStats([]float64{100, 100, 100}, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.VolatilityPct)
	assert.Equal(t, 0.0, s.Sharpe)
	assert.Equal(t, 0.0, s.TotalReturnPct)
}

func TestComputeStats_Errors(t *testing.T) {
	_, err := ComputeStats(nil, 100, 2)
	assert.Error(t, err)
	_, err = ComputeStats([]float64{1}, 0, 2)
	assert.Error(t, err)
}

func TestMaxDrawdownPct(t *testing.T) {
	assert.InDelta(t, -50, MaxDrawdownPct([]float64{100, 120, 90, 130, 65}), 1e-9)
	assert.Equal(t, 0.0, MaxDrawdownPct([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, MaxDrawdownPct(nil))
}

func TestYearlyReturns(t *testing.T) {
	dates := []time.Time{day("2022-12-30"), day("2023-06-01"), day("2023-12-29"), day("2024-03-01")}
	values := []float64{100, 110, 120, 90}

	got := YearlyReturns(dates, values)
	require.Len(t, got, 2)
	assert.Equal(t, 2023, got[0].Year)
	assert.InDelta(t, 20, got[0].ReturnPct, 1e-9)
	assert.Equal(t, 2024, got[1].Year)
	assert.InDelta(t, -25, got[1].ReturnPct, 1e-9)

	assert.Empty(t, YearlyReturns(dates[:1], values[:1]))
}
