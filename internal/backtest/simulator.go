package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"robo-advisor/internal/data"
	"robo-advisor/internal/model"

	"go.uber.org/zap"
)

const (
	DefaultInitial       = 10000.0
	DefaultLookbackYears = 10.0
)

// ErrInvalidSimulation wraps bad simulation inputs.
var ErrInvalidSimulation = errors.New("invalid simulation")

// Simulator runs back-tests over a trailing window ending today.
type Simulator struct {
	history *data.History
	engine  *Engine
	now     func() time.Time
	log     *zap.Logger
}

// SimulatorOptions tunes a Simulator. Zero values select defaults.
type SimulatorOptions struct {
	RiskFreePct *float64
	Now         func() time.Time
}

func NewSimulator(h *data.History, opts SimulatorOptions, log *zap.Logger) *Simulator {
	e := New()
	if opts.RiskFreePct != nil {
		e.RiskFreePct = *opts.RiskFreePct
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{history: h, engine: e, now: opts.Now, log: log.Named("simulator")}
}

// Window returns the [start, end] days of a lookback ending today.
// A year counts 365 days.
func (s *Simulator) Window(lookbackYears float64) (time.Time, time.Time) {
	end := model.Day(s.now())
	days := int(math.Round(lookbackYears * 365))
	return end.AddDate(0, 0, -days), end
}

// Simulate fetches the closes of every weighted ticker over the lookback
// window and runs the engine. Tickers that cannot be fetched are dropped and
// reported in Result.Warnings; if none can be fetched the error is
// ErrDataUnavailable.
func (s *Simulator) Simulate(ctx context.Context, in model.SimulationInputs) (*Result, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}
	tickers := make([]string, 0, len(in.Weights))
	for t := range in.Weights {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	start, end := s.Window(in.LookbackYears)
	hist, err := s.history.Closes(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}
	if len(hist.Series) == 0 {
		s.log.Warn("no data for any ticker", zap.Strings("tickers", tickers))
		return nil, fmt.Errorf("%w: all %d tickers failed", ErrDataUnavailable, len(tickers))
	}

	res, err := s.engine.Run(hist.Series, in.Weights, in.Initial)
	if err != nil {
		return nil, err
	}
	res.Warnings = hist.Warnings

	s.log.Info("simulation complete",
		zap.Strings("tickers", res.Tickers),
		zap.Int("dropped", len(res.Warnings)),
		zap.Int("days", res.Stats.TradingDays),
		zap.Float64("final", res.Stats.Final),
		zap.Bool("cached", hist.Cached))
	return res, nil
}

func validateInputs(in model.SimulationInputs) error {
	if len(in.Weights) == 0 {
		return fmt.Errorf("%w: no weights", ErrInvalidSimulation)
	}
	for t, w := range in.Weights {
		if t == "" {
			return fmt.Errorf("%w: empty ticker", ErrInvalidSimulation)
		}
		if w < 0 || w > 1 || math.IsNaN(w) {
			return fmt.Errorf("%w: weight of %s must be in [0,1]", ErrInvalidSimulation, t)
		}
	}
	if err := model.PortfolioFromWeights(in.Weights).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSimulation, err)
	}
	if in.Initial <= 0 || math.IsNaN(in.Initial) || math.IsInf(in.Initial, 0) {
		return fmt.Errorf("%w: initial investment must be > 0", ErrInvalidSimulation)
	}
	if in.LookbackYears <= 0 || in.LookbackYears > 50 || math.IsNaN(in.LookbackYears) {
		return fmt.Errorf("%w: lookback must be in (0, 50] years", ErrInvalidSimulation)
	}
	return nil
}

// SimulateBatch runs several portfolios over the same window, fetching the
// union of their tickers once. A portfolio whose tickers all failed gets a nil
// result. The error is ErrDataUnavailable only when no portfolio could run.
func (s *Simulator) SimulateBatch(ctx context.Context, weights []map[string]float64, initial, lookbackYears float64) ([]*Result, error) {
	seen := map[string]bool{}
	var tickers []string
	for _, w := range weights {
		if err := validateInputs(model.SimulationInputs{Weights: w, Initial: initial, LookbackYears: lookbackYears}); err != nil {
			return nil, err
		}
		for t := range w {
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no portfolios", ErrInvalidSimulation)
	}
	sort.Strings(tickers)

	start, end := s.Window(lookbackYears)
	hist, err := s.history.Closes(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}
	byTicker := make(map[string]model.PriceSeries, len(hist.Series))
	for _, ser := range hist.Series {
		byTicker[ser.Ticker] = ser
	}
	failed := make(map[string]data.Warning, len(hist.Warnings))
	for _, w := range hist.Warnings {
		failed[w.Ticker] = w
	}

	out := make([]*Result, len(weights))
	ran := 0
	for i, w := range weights {
		var series []model.PriceSeries
		var warns []data.Warning
		for t := range w {
			if ser, ok := byTicker[t]; ok {
				series = append(series, ser)
			} else if wn, ok := failed[t]; ok {
				warns = append(warns, wn)
			}
		}
		if len(series) == 0 {
			continue
		}
		res, err := s.engine.Run(series, w, initial)
		if err != nil {
			return nil, err
		}
		sort.Slice(warns, func(a, b int) bool { return warns[a].Ticker < warns[b].Ticker })
		res.Warnings = warns
		out[i] = res
		ran++
	}
	if ran == 0 {
		s.log.Warn("no data for any portfolio", zap.Strings("tickers", tickers))
		return nil, fmt.Errorf("%w: all %d tickers failed", ErrDataUnavailable, len(tickers))
	}
	s.log.Info("batch simulation complete",
		zap.Int("portfolios", len(weights)),
		zap.Int("ran", ran),
		zap.Int("dropped", len(hist.Warnings)))
	return out, nil
}
