package backtest

import (
	"time"

	"robo-advisor/internal/data"
	"robo-advisor/internal/model"
)

// LedgerRow is one day of simulated output.
// This is the primary artifact for "what happened" in a back-test.
type LedgerRow struct {
	Index int
	Date  time.Time

	// Return is the weighted portfolio return of the day.
	Return float64
	Value  float64

	RunningMax  float64
	DrawdownPct float64
}

// YearReturn is the calendar-year return of the portfolio value.
type YearReturn struct {
	Year      int
	ReturnPct float64
}

type Result struct {
	// Tickers that contributed to the simulation, sorted.
	Tickers  []string
	Weights  map[string]float64
	Start    time.Time
	End      time.Time
	Ledger   []LedgerRow
	Stats    Stats
	Yearly   []YearReturn
	Warnings []data.Warning

	// Series are the closes the simulation ran on, in Tickers order.
	Series []model.PriceSeries
}

// Values returns the value column of the ledger.
func (r *Result) Values() []float64 {
	out := make([]float64, len(r.Ledger))
	for i, row := range r.Ledger {
		out[i] = row.Value
	}
	return out
}
