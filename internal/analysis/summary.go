package analysis

import (
	"math"
	"sort"
	"time"

	"robo-advisor/internal/model"
)

// TickerSummary is a per-holding summary of the closes a simulation ran on.
// It does not depend on the portfolio weights; it describes how the holding
// itself behaved over the window.
type TickerSummary struct {
	Ticker string

	Start time.Time
	End   time.Time

	Count int

	MinClose  float64
	MaxClose  float64
	MeanClose float64

	// Daily return percentiles, in percent.
	P05ReturnPct float64
	P95ReturnPct float64

	TotalReturnPct float64
	Trend          model.Trend
}

func Summarize(s model.PriceSeries) TickerSummary {
	out := TickerSummary{Ticker: s.Ticker, Trend: model.TrendFlat}
	if s.Len() == 0 {
		return out
	}
	out.Count = s.Len()
	out.Start = s.Start()
	out.End = s.End()

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, p := range s.Points {
		sum += p.Close
		if p.Close < minv {
			minv = p.Close
		}
		if p.Close > maxv {
			maxv = p.Close
		}
	}
	out.MinClose = minv
	out.MaxClose = maxv
	out.MeanClose = sum / float64(out.Count)

	rets := make([]float64, 0, out.Count-1)
	for i := 1; i < out.Count; i++ {
		prev := s.Points[i-1].Close
		if prev == 0 {
			continue
		}
		rets = append(rets, (s.Points[i].Close/prev-1)*100)
	}
	sort.Float64s(rets)
	out.P05ReturnPct = percentileSorted(rets, 0.05)
	out.P95ReturnPct = percentileSorted(rets, 0.95)

	first := s.Points[0].Close
	if first != 0 {
		out.TotalReturnPct = (s.Points[out.Count-1].Close/first - 1) * 100
	}
	out.Trend = model.TrendFromReturn(out.TotalReturnPct)
	return out
}

// SummarizeAll summarizes every series, keeping the input order.
func SummarizeAll(series []model.PriceSeries) []TickerSummary {
	out := make([]TickerSummary, len(series))
	for i, s := range series {
		out[i] = Summarize(s)
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
