package data

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"robo-advisor/internal/model"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// chartJSON builds a Yahoo chart body with closes at 14:30 UTC (09:30 New York).
func chartJSON(t *testing.T, symbol string, days []string, closes []*float64) []byte {
	t.Helper()
	ts := make([]int64, len(days))
	for i, d := range days {
		ts[i] = day(d).Add(14*time.Hour + 30*time.Minute).Unix()
	}
	body := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":      map[string]any{"symbol": symbol, "currency": "USD", "gmtoffset": -18000},
				"timestamp": ts,
				"indicators": map[string]any{
					"quote": []any{map[string]any{"close": closes}},
				},
			}},
			"error": nil,
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func f(v float64) *float64 { return &v }

// stubFetcher returns canned series or errors and counts calls.
type stubFetcher struct {
	series map[string]model.PriceSeries
	errs   map[string]error
	calls  map[string]int
}

func newStub() *stubFetcher {
	return &stubFetcher{
		series: map[string]model.PriceSeries{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (s *stubFetcher) FetchCloses(_ context.Context, ticker string, _, _ time.Time) (model.PriceSeries, error) {
	s.calls[ticker]++
	if err, ok := s.errs[ticker]; ok {
		return model.PriceSeries{}, err
	}
	ser, ok := s.series[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("unexpected ticker %s", ticker)
	}
	return ser, nil
}

func series(ticker string, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Ticker: ticker}
	d := day("2024-01-02")
	for _, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Date: d, Close: c})
		d = d.AddDate(0, 0, 1)
	}
	return s
}
