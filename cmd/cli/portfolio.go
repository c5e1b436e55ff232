package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"robo-advisor/internal/catalog"
	"robo-advisor/internal/report"

	"github.com/google/subcommands"
)

type portfolioCmd struct {
	bucket string
	render string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "prints the model portfolio of a risk bucket" }
func (*portfolioCmd) Usage() string {
	return `cli portfolio --bucket <0-4|label> [--render dark]

  Prints the holdings of a model portfolio as markdown.
`
}

func (p *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.bucket, "bucket", "", "Risk bucket, 0-4 or its label (e.g. Balanceado)")
	f.StringVar(&p.render, "render", "", "Render for the terminal with a glamour style (dark, light, notty)")
}

func (p *portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := parseBucketFlag(p.bucket)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	pf, err := app.catalog.Portfolio(b)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	md, err := report.Markdown(app.catalog, report.Input{Bucket: b, Portfolio: pf})
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

type exportCmd struct {
	bucket string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "writes a model portfolio as CSV" }
func (*exportCmd) Usage() string {
	return `cli export --bucket <0-4|label> [--out file.csv]

  Writes the portfolio with the columns ETF, Nombre, Peso %, Tipo, Descripción.
  The default file name is portfolio_<label>.csv; use --out - for stdout.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.bucket, "bucket", "", "Risk bucket, 0-4 or its label")
	f.StringVar(&p.out, "out", "", "Output CSV path, '-' for stdout")
}

func (p *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := parseBucketFlag(p.bucket)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	pf, err := app.catalog.Portfolio(b)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if p.out == "-" {
		if err := catalog.WritePortfolioCSV(os.Stdout, pf, app.catalog); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out := p.out
	if out == "" {
		out = catalog.ExportFilename(b)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	f, err := os.Create(out)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer f.Close()
	if err := catalog.WritePortfolioCSV(f, pf, app.catalog); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Wrote %d holdings to %s\n", len(pf), out)
	return subcommands.ExitSuccess
}

type etfsCmd struct{}

func (*etfsCmd) Name() string     { return "etfs" }
func (*etfsCmd) Synopsis() string { return "describes the ETFs used by the model portfolios" }
func (*etfsCmd) Usage() string {
	return `cli etfs [TICKER...]

  Without arguments lists every ETF; with tickers prints their details.
`
}
func (*etfsCmd) SetFlags(*flag.FlagSet) {}

func (*etfsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if f.NArg() == 0 {
		fmt.Printf("%-6s %-14s %-10s %s\n", "ticker", "type", "risk", "name")
		for _, e := range app.catalog.ETFs() {
			fmt.Printf("%-6s %-14s %-10s %s\n", e.Ticker, e.AssetType, e.Risk, e.Name)
		}
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, t := range f.Args() {
		e, err := app.catalog.ETF(strings.ToUpper(t))
		if err != nil {
			fail("%v", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s - %s\n", e.Ticker, e.Name)
		fmt.Printf("  Tipo: %s\n  Riesgo: %s\n  Retorno esperado: %s\n", e.AssetType, e.Risk, e.ExpectedReturn)
		fmt.Printf("  %s\n", e.Description)
		if e.Summary != "" {
			fmt.Printf("  %s\n", e.Summary)
		}
		for _, d := range e.Details {
			fmt.Printf("  %s: %s\n", d.Label, d.Value)
		}
		fmt.Println()
	}
	return status
}
