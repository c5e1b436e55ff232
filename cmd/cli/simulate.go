package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"robo-advisor/internal/analysis"
	"robo-advisor/internal/backtest"
	"robo-advisor/internal/config"
	"robo-advisor/internal/model"
	"robo-advisor/internal/report"

	"github.com/google/subcommands"
)

type simulateCmd struct {
	bucket   string
	weights  string
	initial  float64
	years    float64
	dataPath string
	outPath  string
	render   string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "back-tests a model portfolio or custom weights" }
func (*simulateCmd) Usage() string {
	return `cli simulate (--bucket <0-4|label> | --weights AGG=0.6,ACWI=0.4) [--initial 10000] [--years 10]
             [--data snapshot.json] [--out results/value.csv] [--render dark]

  Fetches daily closes over the lookback window, simulates the portfolio and
  prints the statistics. Tickers without data are dropped with a warning and
  their weight is not redistributed. --data runs offline from a snapshot
  written by "cli fetch" or a saved chart response.
`
}

func (p *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.bucket, "bucket", "", "Risk bucket, 0-4 or its label")
	f.StringVar(&p.weights, "weights", "", "Custom weights, e.g. AGG=0.6,ACWI=0.4")
	f.Float64Var(&p.initial, "initial", 0, "Initial investment (default from config)")
	f.Float64Var(&p.years, "years", 0, "Lookback in years (default from config)")
	f.StringVar(&p.dataPath, "data", "", "Offline snapshot or chart JSON instead of the market data API")
	f.StringVar(&p.outPath, "out", "", "Optional: write the daily value series as CSV")
	f.StringVar(&p.render, "render", "", "Render for the terminal with a glamour style (dark, light, notty)")
}

func (p *simulateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (p.bucket == "") == (p.weights == "") {
		fail("set exactly one of --bucket or --weights")
		return subcommands.ExitUsageError
	}
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	var (
		bucket    = model.Bucket(-1)
		portfolio model.Portfolio
	)
	if p.bucket != "" {
		if bucket, err = parseBucketFlag(p.bucket); err != nil {
			fail("%v", err)
			return subcommands.ExitUsageError
		}
		if portfolio, err = app.catalog.Portfolio(bucket); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	} else {
		w, err := parseWeights(p.weights)
		if err != nil {
			fail("%v", err)
			return subcommands.ExitUsageError
		}
		portfolio = model.PortfolioFromWeights(w)
	}

	settings := config.MergeSimulation(app.cfg.Simulation, config.SimulationConfig{Initial: p.initial, LookbackYears: p.years})
	sim, closeCache, err := app.simulator(ctx, p.dataPath)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer closeCache()

	res, err := sim.Simulate(ctx, model.SimulationInputs{
		Weights:       portfolio.Weights(),
		Initial:       settings.Initial,
		LookbackYears: settings.LookbackYears,
	})
	switch {
	case errors.Is(err, backtest.ErrDataUnavailable):
		fail("historical data unavailable for every ticker; try again later")
		return subcommands.ExitFailure
	case errors.Is(err, backtest.ErrInvalidSimulation):
		fail("%v", err)
		return subcommands.ExitUsageError
	case err != nil:
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if p.outPath != "" {
		if err := backtest.WriteLedgerCSV(p.outPath, res.Ledger); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(res.Ledger), p.outPath)
	}

	if !bucket.Valid() {
		printStats(res)
		return subcommands.ExitSuccess
	}
	md, err := report.Markdown(app.catalog, report.Input{Bucket: bucket, Portfolio: portfolio, Result: res})
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if err := writeMarkdown(os.Stdout, md, p.render); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printStats prints a custom-weights simulation, which has no profile to report.
func printStats(res *backtest.Result) {
	s := res.Stats
	fmt.Printf("Window:             %s to %s (%d days)\n", res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), s.TradingDays)
	fmt.Printf("Initial:            %s\n", report.FormatMoney(s.Initial, report.DefaultCurrency))
	fmt.Printf("Final:              %s\n", report.FormatMoney(s.Final, report.DefaultCurrency))
	fmt.Printf("Total return:       %s\n", report.FormatPercent(s.TotalReturnPct))
	fmt.Printf("Annualized return:  %s\n", report.FormatPercent(s.AnnualizedReturnPct()))
	fmt.Printf("Volatility:         %.2f%%\n", s.VolatilityPct)
	fmt.Printf("Sharpe:             %.2f\n", s.Sharpe)
	fmt.Printf("Max drawdown:       %s\n", report.FormatPercent(s.MaxDrawdownPct))
	for _, y := range res.Yearly {
		fmt.Printf("  %d: %s\n", y.Year, report.FormatPercent(y.ReturnPct))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

type compareCmd struct {
	initial  float64
	years    float64
	dataPath string
}

func (*compareCmd) Name() string { return "compare" }
func (*compareCmd) Synopsis() string {
	return "back-tests every model portfolio and ranks them by Sharpe"
}
func (*compareCmd) Usage() string {
	return `cli compare [--initial 10000] [--years 10] [--data snapshot.json]
`
}

func (p *compareCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&p.initial, "initial", 0, "Initial investment (default from config)")
	f.Float64Var(&p.years, "years", 0, "Lookback in years (default from config)")
	f.StringVar(&p.dataPath, "data", "", "Offline snapshot or chart JSON instead of the market data API")
}

func (p *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	settings := config.MergeSimulation(app.cfg.Simulation, config.SimulationConfig{Initial: p.initial, LookbackYears: p.years})
	sim, closeCache, err := app.simulator(ctx, p.dataPath)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer closeCache()

	buckets := model.AllBuckets()
	weights := make([]map[string]float64, len(buckets))
	for i, b := range buckets {
		pf, err := app.catalog.Portfolio(b)
		if err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		weights[i] = pf.Weights()
	}
	results, err := sim.SimulateBatch(ctx, weights, settings.Initial, settings.LookbackYears)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	cands := make([]analysis.Candidate, len(buckets))
	for i, b := range buckets {
		cands[i] = analysis.Candidate{Bucket: b, Result: results[i]}
	}
	fmt.Printf("%-4s %-12s %-10s %-10s %-10s %-8s\n", "rank", "profile", "return", "annual", "max dd", "sharpe")
	for _, r := range analysis.RankBySharpe(cands) {
		fmt.Printf("%-4d %-12s %-10s %-10s %-10s %-8.2f\n",
			r.Rank,
			r.Bucket.Label(),
			report.FormatPercent(r.Stats.TotalReturnPct),
			report.FormatPercent(r.Stats.AnnualizedReturnPct()),
			report.FormatPercent(r.Stats.MaxDrawdownPct),
			r.Stats.Sharpe,
		)
	}
	return subcommands.ExitSuccess
}
