package model

// Trend is a human-friendly direction of a period return.
// Keep these values stable; they are intended for CSV and JSON output.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendFlat Trend = "FLAT"
	TrendDown Trend = "DOWN"
)

func TrendFromReturn(r float64) Trend {
	switch {
	case r > 0:
		return TrendUp
	case r < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}
