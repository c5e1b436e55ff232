package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Bucket is the ordinal risk category, 0 (most conservative) to 4 (most aggressive).
type Bucket int

const (
	BucketConservative Bucket = iota
	BucketModerate
	BucketBalanced
	BucketGrowth
	BucketAggressive
)

// NumBuckets is the number of risk buckets.
const NumBuckets = 5

var bucketLabels = [NumBuckets]string{
	"Conservador",
	"Moderado",
	"Balanceado",
	"Crecimiento",
	"Agresivo",
}

func (b Bucket) Valid() bool { return b >= 0 && int(b) < NumBuckets }

// Label returns the profile name shown to the investor.
func (b Bucket) Label() string {
	if !b.Valid() {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return bucketLabels[b]
}

// RiskLevel is the 1-based level displayed as "n/5".
func (b Bucket) RiskLevel() int { return int(b) + 1 }

func (b Bucket) String() string { return b.Label() }

// ParseBucket accepts a bucket number ("0".."4") or a label, case-insensitively.
func ParseBucket(s string) (Bucket, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if b := Bucket(n); b.Valid() {
			return b, nil
		}
		return 0, fmt.Errorf("bucket %d out of range [0,%d]", n, NumBuckets-1)
	}
	for i, l := range bucketLabels {
		if strings.EqualFold(l, s) {
			return Bucket(i), nil
		}
	}
	return 0, fmt.Errorf("unknown bucket %q", s)
}

// AllBuckets returns the buckets in ascending risk order.
func AllBuckets() []Bucket {
	out := make([]Bucket, NumBuckets)
	for i := range out {
		out[i] = Bucket(i)
	}
	return out
}

// Holding is one ticker/weight pair of a model portfolio.
type Holding struct {
	Ticker string  `json:"ticker" yaml:"ticker"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Portfolio is an ordered list of holdings. Order is the display order.
type Portfolio []Holding

// WeightTolerance is the allowed deviation of a portfolio's weight sum from 1.
const WeightTolerance = 1e-6

// Weights returns the portfolio as a ticker→weight map.
func (p Portfolio) Weights() map[string]float64 {
	out := make(map[string]float64, len(p))
	for _, h := range p {
		out[h.Ticker] += h.Weight
	}
	return out
}

// Tickers returns the tickers in display order.
func (p Portfolio) Tickers() []string {
	out := make([]string, len(p))
	for i, h := range p {
		out[i] = h.Ticker
	}
	return out
}

// TotalWeight sums the weights.
func (p Portfolio) TotalWeight() float64 {
	sum := 0.0
	for _, h := range p {
		sum += h.Weight
	}
	return sum
}

// Validate checks weight bounds and that weights sum to 1.
func (p Portfolio) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("portfolio has no holdings")
	}
	seen := make(map[string]bool, len(p))
	for _, h := range p {
		if h.Ticker == "" {
			return fmt.Errorf("holding with empty ticker")
		}
		if seen[h.Ticker] {
			return fmt.Errorf("duplicate ticker %q", h.Ticker)
		}
		seen[h.Ticker] = true
		if h.Weight < 0 || h.Weight > 1 || math.IsNaN(h.Weight) {
			return fmt.Errorf("weight of %s must be in [0,1], got %v", h.Ticker, h.Weight)
		}
	}
	if sum := p.TotalWeight(); math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("weights sum to %v, want 1", sum)
	}
	return nil
}

// Clone returns a copy that callers may modify freely.
func (p Portfolio) Clone() Portfolio {
	return append(Portfolio(nil), p...)
}

// PortfolioFromWeights builds a portfolio from a map, sorted by descending weight then ticker.
func PortfolioFromWeights(weights map[string]float64) Portfolio {
	out := make(Portfolio, 0, len(weights))
	for t, w := range weights {
		out = append(out, Holding{Ticker: t, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// Detail is an extra labelled fact about an ETF (duration, yield, coverage...).
type Detail struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// ETFInfo is the read-only reference record of a ticker.
type ETFInfo struct {
	Ticker         string   `json:"ticker" yaml:"ticker"`
	Name           string   `json:"name" yaml:"name"`
	AssetType      string   `json:"asset_type" yaml:"asset_type"`
	Risk           string   `json:"risk" yaml:"risk"`
	Color          string   `json:"color" yaml:"color"`
	Description    string   `json:"description" yaml:"description"`
	ExpectedReturn string   `json:"expected_return" yaml:"expected_return"`
	Summary        string   `json:"summary,omitempty" yaml:"summary"`
	Details        []Detail `json:"details,omitempty" yaml:"details"`
}
