package models

import (
	"time"

	"robo-advisor/internal/model"
)

// QuestionnaireResponse lists the questions and their allowed answers.
type QuestionnaireResponse struct {
	Questions  []QuestionInfo `json:"questions"`
	MaxScore   int            `json:"max_score"`
	Disclaimer string         `json:"disclaimer"`
}

type QuestionInfo struct {
	Field   string   `json:"field"`
	Prompt  string   `json:"prompt"`
	Kind    string   `json:"kind"` // "range" or "choice"
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Default int      `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

// ProfileResponse is the result card of a scored questionnaire.
type ProfileResponse struct {
	Bucket      int           `json:"bucket"`
	Label       string        `json:"label"`
	RiskLevel   int           `json:"risk_level"` // bucket+1, shown as n/5
	Score       int           `json:"score"`
	MaxScore    int           `json:"max_score"`
	Description string        `json:"description"`
	Portfolio   []HoldingInfo `json:"portfolio"`
	Disclaimer  string        `json:"disclaimer"`
}

// PortfolioResponse describes one model portfolio.
type PortfolioResponse struct {
	Bucket      int           `json:"bucket"`
	Label       string        `json:"label"`
	RiskLevel   int           `json:"risk_level"`
	Description string        `json:"description"`
	Holdings    []HoldingInfo `json:"holdings"`
}

// HoldingInfo is a holding joined with its ETF reference data.
type HoldingInfo struct {
	Ticker    string  `json:"ticker"`
	Weight    float64 `json:"weight"`
	WeightPct string  `json:"weight_pct"` // fixed two decimals
	Name      string  `json:"name,omitempty"`
	AssetType string  `json:"asset_type,omitempty"`
	Risk      string  `json:"risk,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// ETFListResponse lists the reference data of every known ticker.
type ETFListResponse struct {
	ETFs []model.ETFInfo `json:"etfs"`
}

// SimulationResponse represents the response from a back-test run
type SimulationResponse struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"` // "complete" or "partial"
	Inputs   SimulationInputs  `json:"inputs"`
	Summary  SimulationSummary `json:"summary"`
	Yearly   []YearReturn      `json:"yearly_returns"`
	Holdings []HoldingSummary  `json:"holdings"`
	Warnings []WarningInfo     `json:"warnings,omitempty"`
	Series   []ValuePoint      `json:"series,omitempty"`
}

type SimulationInputs struct {
	Bucket        *int               `json:"bucket,omitempty"`
	Weights       map[string]float64 `json:"weights"`
	Initial       float64            `json:"initial"`
	LookbackYears float64            `json:"lookback_years"`
}

// SimulationSummary contains the statistics of a back-test
type SimulationSummary struct {
	Initial             float64    `json:"initial"`
	Final               float64    `json:"final"`
	Profit              float64    `json:"profit"`
	TotalReturnPct      float64    `json:"total_return_pct"`
	AnnualizedReturnPct float64    `json:"annualized_return_pct"`
	VolatilityPct       float64    `json:"volatility_pct"`
	Sharpe              float64    `json:"sharpe"`
	MaxDrawdownPct      float64    `json:"max_drawdown_pct"`
	TradingDays         int        `json:"trading_days"`
	Years               float64    `json:"years"`
	Window              TimeWindow `json:"window"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type YearReturn struct {
	Year      int         `json:"year"`
	ReturnPct float64     `json:"return_pct"`
	Trend     model.Trend `json:"trend"`
}

// HoldingSummary describes how one holding behaved over the window.
type HoldingSummary struct {
	Ticker         string      `json:"ticker"`
	Weight         float64     `json:"weight"`
	Count          int         `json:"count"`
	MinClose       float64     `json:"min_close"`
	MaxClose       float64     `json:"max_close"`
	MeanClose      float64     `json:"mean_close"`
	P05ReturnPct   float64     `json:"p05_daily_return_pct"`
	P95ReturnPct   float64     `json:"p95_daily_return_pct"`
	TotalReturnPct float64     `json:"total_return_pct"`
	Trend          model.Trend `json:"trend"`
}

// WarningInfo reports a ticker dropped from the simulation.
type WarningInfo struct {
	Ticker  string `json:"ticker"`
	Message string `json:"message"`
}

type ValuePoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Return float64 `json:"return"`
	Value  float64 `json:"value"`
}

// CompareResponse ranks the model portfolios by Sharpe ratio.
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Skipped    []int              `json:"skipped,omitempty"` // buckets without data
	Warnings   []WarningInfo      `json:"warnings,omitempty"`
}

// ComparisonResult contains results for one bucket
type ComparisonResult struct {
	Rank    int               `json:"rank"`
	Bucket  int               `json:"bucket"`
	Label   string            `json:"label"`
	Summary SimulationSummary `json:"summary"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeDataUnavailable = "DATA_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)
