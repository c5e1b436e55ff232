package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"robo-advisor/internal/backtest"
	"robo-advisor/internal/data"

	"github.com/google/subcommands"
)

type fetchCmd struct {
	tickers string
	years   float64
	out     string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "downloads daily closes into a snapshot for offline runs" }
func (*fetchCmd) Usage() string {
	return `cli fetch [--tickers AGG,ACWI] [--years 10] [--out data/snapshot.json]

  Downloads the closes of the given tickers (default: every catalog ETF) and
  saves them as a snapshot usable with --data.
`
}

func (p *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.tickers, "tickers", "", "Comma-separated tickers (default: every catalog ETF)")
	f.Float64Var(&p.years, "years", backtest.DefaultLookbackYears, "Lookback in years")
	f.StringVar(&p.out, "out", "data/snapshot.json", "Output snapshot path")
}

func (p *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	var tickers []string
	for _, t := range strings.Split(p.tickers, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		for _, e := range app.catalog.ETFs() {
			tickers = append(tickers, e.Ticker)
		}
	}
	sort.Strings(tickers)

	f, err := app.fetcher("")
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -int(p.years*365))
	fmt.Fprintf(os.Stderr, "Fetching %s from %s to %s...\n", strings.Join(tickers, ","), start.Format(time.DateOnly), end.Format(time.DateOnly))

	// No cache: a snapshot should reflect the provider now.
	res, err := data.NewHistory(f, nil, app.log).Closes(ctx, tickers, start, end)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if len(res.Series) == 0 {
		fail("historical data unavailable for every ticker; nothing saved")
		return subcommands.ExitFailure
	}

	snap := &data.Snapshot{UpdatedAt: time.Now().UTC().Format(time.RFC3339), Series: res.Series}
	if err := data.SaveSnapshot(snap, p.out); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Saved %d series to %s\n", len(res.Series), p.out)
	return subcommands.ExitSuccess
}
