package data

import (
	"context"
	"errors"
	"time"

	"robo-advisor/internal/model"

	"go.uber.org/zap"
)

// History fetches the closes of a set of tickers, tolerating per-ticker failures.
type History struct {
	fetcher Fetcher
	cache   Cache
	log     *zap.Logger
}

// HistoryResult is the outcome of one history request.
type HistoryResult struct {
	// Series holds the surviving tickers, in request order.
	Series []model.PriceSeries
	// Warnings lists the dropped tickers.
	Warnings []Warning
	Cached   bool
}

// NewHistory builds a History. A nil cache disables memoization.
func NewHistory(f Fetcher, c Cache, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{fetcher: f, cache: c, log: log.Named("history")}
}

// Closes fetches every ticker over [start, end]. A ticker that fails is
// dropped with a warning. Any result with at least one surviving series is
// memoized, partial ones included; a later hit reports the missing tickers
// with ErrDroppedWhenCached.
func (h *History) Closes(ctx context.Context, tickers []string, start, end time.Time) (*HistoryResult, error) {
	if len(tickers) == 0 {
		return nil, errors.New("no tickers")
	}
	start, end = model.Day(start), model.Day(end)
	key := CacheKey(tickers, start, end)

	if h.cache != nil {
		if cached, ok := h.cache.Get(ctx, key); ok {
			h.log.Debug("cache hit", zap.Strings("tickers", tickers), zap.Int("series", len(cached)))
			res := &HistoryResult{Series: ordered(cached, tickers), Cached: true}
			res.Warnings = missing(res.Series, tickers)
			return res, nil
		}
	}

	res := &HistoryResult{}
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := h.fetcher.FetchCloses(ctx, t, start, end)
		if err == nil && s.Len() == 0 {
			err = &ProviderError{Code: CodeEmptySeries, Message: "empty series"}
		}
		if err != nil {
			w := Warning{Ticker: t, Err: err}
			h.log.Warn("dropping ticker", zap.String("ticker", t), zap.Error(err))
			res.Warnings = append(res.Warnings, w)
			continue
		}
		s.Ticker = t
		res.Series = append(res.Series, s)
	}

	if h.cache != nil && len(res.Series) > 0 {
		h.cache.Set(ctx, key, res.Series)
	}
	return res, nil
}

// missing reports the tickers absent from series, in tickers order.
func missing(series []model.PriceSeries, tickers []string) []Warning {
	have := make(map[string]bool, len(series))
	for _, s := range series {
		have[s.Ticker] = true
	}
	var out []Warning
	for _, t := range tickers {
		if !have[t] {
			out = append(out, Warning{Ticker: t, Err: ErrDroppedWhenCached})
		}
	}
	return out
}

// ordered returns the series in tickers order, skipping absent ones.
func ordered(series []model.PriceSeries, tickers []string) []model.PriceSeries {
	byTicker := make(map[string]model.PriceSeries, len(series))
	for _, s := range series {
		byTicker[s.Ticker] = s
	}
	out := make([]model.PriceSeries, 0, len(series))
	for _, t := range tickers {
		if s, ok := byTicker[t]; ok {
			out = append(out, s)
		}
	}
	return out
}
