package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/config"
	"robo-advisor/internal/data"
	"robo-advisor/internal/logging"
	"robo-advisor/internal/model"
	"robo-advisor/internal/report"

	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file (defaults are used when empty)")
	logLevel   = flag.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
}

func newApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	// The CLI writes results to stdout; logs stay human readable on stderr.
	log, err := logging.New(level, "console")
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &app{cfg: cfg, log: log, catalog: cat}, nil
}

// fetcher returns the offline snapshot fetcher when dataPath is set, the
// Yahoo client otherwise.
func (a *app) fetcher(dataPath string) (data.Fetcher, error) {
	if dataPath != "" {
		return data.OpenFileFetcher(dataPath)
	}
	return data.NewYahooClient(data.YahooOptions{
		BaseURL:           a.cfg.MarketData.BaseURL,
		Timeout:           a.cfg.MarketData.Timeout,
		RequestsPerSecond: a.cfg.MarketData.RequestsPerSecond,
		Burst:             a.cfg.MarketData.Burst,
	}, a.log), nil
}

// cache returns the configured price cache and a function releasing it.
func (a *app) cache(ctx context.Context) (data.Cache, func(), error) {
	if a.cfg.Cache.Backend != config.CacheRedis {
		return data.NewMemoryCache(a.cfg.Cache.TTL), func() {}, nil
	}
	rc, err := data.NewRedisCache(ctx, data.RedisOptions{
		Addr:     a.cfg.Cache.Redis.Addr,
		Password: a.cfg.Cache.Redis.Password,
		DB:       a.cfg.Cache.Redis.DB,
		TTL:      a.cfg.Cache.TTL,
	}, a.log)
	if err != nil {
		return nil, nil, err
	}
	return rc, func() { _ = rc.Close() }, nil
}

func (a *app) simulator(ctx context.Context, dataPath string) (*backtest.Simulator, func(), error) {
	f, err := a.fetcher(dataPath)
	if err != nil {
		return nil, nil, err
	}
	c, closeCache, err := a.cache(ctx)
	if err != nil {
		return nil, nil, err
	}
	rf := a.cfg.Simulation.RiskFree(backtest.DefaultRiskFreePct)
	sim := backtest.NewSimulator(data.NewHistory(f, c, a.log), backtest.SimulatorOptions{RiskFreePct: &rf}, a.log)
	return sim, closeCache, nil
}

// parseWeights parses "AGG=0.6,ACWI=0.4". Tickers are upper-cased.
func parseWeights(s string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ticker, w, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("weight %q: want TICKER=WEIGHT", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", part, err)
		}
		out[strings.ToUpper(strings.TrimSpace(ticker))] = v
	}
	if len(out) == 0 {
		return nil, errors.New("no weights given")
	}
	return out, nil
}

// writeMarkdown prints md as is, or rendered for a terminal when style is set.
func writeMarkdown(w io.Writer, md, style string) error {
	if style == "" {
		_, err := io.WriteString(w, md)
		return err
	}
	out, err := report.Render(md, style, 100)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func parseBucketFlag(s string) (model.Bucket, error) {
	if s == "" {
		return 0, errors.New("--bucket is required")
	}
	return model.ParseBucket(s)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
