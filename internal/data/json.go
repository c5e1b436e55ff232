package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"robo-advisor/internal/model"
)

// ChartResponse matches the JSON shape of the Yahoo chart endpoint.
//
// Example:
//
//	{"chart": {"result": [{"meta": {...}, "timestamp": [...],
//	  "indicators": {"quote": [{"close": [...]}], "adjclose": [{"adjclose": [...]}]}}],
//	  "error": null}}
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			// Nulls mark days without a trade.
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// Series converts the first chart result into a PriceSeries.
// Adjusted closes are preferred when present; null closes are skipped.
func (r *ChartResponse) Series(ticker string) (model.PriceSeries, error) {
	if r.Chart.Error != nil {
		code := CodeAPIError
		if r.Chart.Error.Code == "Not Found" {
			code = CodeNotFound
		}
		return model.PriceSeries{}, &ProviderError{Code: code, Message: r.Chart.Error.Description}
	}
	if len(r.Chart.Result) == 0 {
		return model.PriceSeries{}, &ProviderError{Code: CodeEmptySeries, Message: fmt.Sprintf("no chart result for %s", ticker)}
	}
	res := r.Chart.Result[0]
	if ticker == "" {
		ticker = res.Meta.Symbol
	}

	var closes []*float64
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = res.Indicators.AdjClose[0].AdjClose
	} else if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
	}
	if len(closes) != len(res.Timestamp) {
		return model.PriceSeries{}, fmt.Errorf("chart for %s has %d timestamps but %d closes", ticker, len(res.Timestamp), len(closes))
	}

	byDay := make(map[time.Time]float64, len(closes))
	for i, ts := range res.Timestamp {
		c := closes[i]
		if c == nil || *c <= 0 {
			continue
		}
		// Shift to exchange local time before truncating so the trading day is kept.
		day := model.Day(time.Unix(ts+res.Meta.GMTOffset, 0).UTC())
		byDay[day] = *c
	}
	if len(byDay) == 0 {
		return model.PriceSeries{}, &ProviderError{Code: CodeEmptySeries, Message: fmt.Sprintf("no closes for %s", ticker)}
	}

	points := make([]model.PricePoint, 0, len(byDay))
	for d, c := range byDay {
		points = append(points, model.PricePoint{Date: d, Close: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return model.PriceSeries{Ticker: ticker, Points: points}, nil
}

// LoadChartJSON reads a saved chart response.
func LoadChartJSON(path string) (model.PriceSeries, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.PriceSeries{}, err
	}
	var resp ChartResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.PriceSeries{}, err
	}
	return resp.Series("")
}
