package models

import "robo-advisor/internal/scoring"

// ProfileRequest carries the questionnaire answers.
type ProfileRequest struct {
	Age       int    `json:"age" binding:"required"`
	Horizon   string `json:"horizon" binding:"required"`
	Income    string `json:"income" binding:"required"`
	Knowledge string `json:"knowledge" binding:"required"`
	MaxDrop   string `json:"max_drop" binding:"required"`
	Reaction  string `json:"reaction" binding:"required"`
	Liquidity string `json:"liquidity" binding:"required"`
	Goal      string `json:"goal" binding:"required"`
	Inflation string `json:"inflation" binding:"required"`
	Digital   string `json:"digital" binding:"required"`
}

func (r ProfileRequest) Answers() scoring.Answers {
	return scoring.Answers{
		Age:       r.Age,
		Horizon:   r.Horizon,
		Income:    r.Income,
		Knowledge: r.Knowledge,
		MaxDrop:   r.MaxDrop,
		Reaction:  r.Reaction,
		Liquidity: r.Liquidity,
		Goal:      r.Goal,
		Inflation: r.Inflation,
		Digital:   r.Digital,
	}
}

// SimulationRequest runs a back-test of either a model portfolio (bucket)
// or custom weights. Zero initial/lookback fall back to the server defaults.
type SimulationRequest struct {
	Bucket        *int               `json:"bucket,omitempty"`
	Weights       map[string]float64 `json:"weights,omitempty"`
	Initial       float64            `json:"initial,omitempty"`
	LookbackYears float64            `json:"lookback_years,omitempty"`
	IncludeSeries bool               `json:"include_series,omitempty"` // default: false
}

// CompareRequest back-tests every model portfolio over the same window.
type CompareRequest struct {
	Initial       float64 `json:"initial,omitempty"`
	LookbackYears float64 `json:"lookback_years,omitempty"`
}
