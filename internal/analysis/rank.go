package analysis

import (
	"sort"

	"robo-advisor/internal/backtest"
	"robo-advisor/internal/model"
)

// Candidate is one simulated portfolio to rank.
type Candidate struct {
	Bucket model.Bucket
	Result *backtest.Result
}

type Ranked struct {
	Rank   int
	Bucket model.Bucket
	Stats  backtest.Stats
}

// RankBySharpe sorts candidates descending by Sharpe ratio. Ties keep the
// lower bucket first. Candidates without a result are skipped.
func RankBySharpe(cands []Candidate) []Ranked {
	out := make([]Ranked, 0, len(cands))
	for _, c := range cands {
		if c.Result == nil {
			continue
		}
		out = append(out, Ranked{Bucket: c.Bucket, Stats: c.Result.Stats})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stats.Sharpe != out[j].Stats.Sharpe {
			return out[i].Stats.Sharpe > out[j].Stats.Sharpe
		}
		return out[i].Bucket < out[j].Bucket
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
