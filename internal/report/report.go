// Package report renders a risk profile, its model portfolio and an optional
// back-test as a markdown document.
package report

import (
	"embed"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/model"
	"robo-advisor/internal/scoring"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

var reportTmpl = template.Must(template.ParseFS(templates, "templates/report.md"))

// DefaultCurrency is used when Input.Currency is empty.
const DefaultCurrency = money.USD

// Input is everything a report can show. Score and Result are optional.
type Input struct {
	Bucket    model.Bucket
	Score     int
	Portfolio model.Portfolio
	Result    *backtest.Result
	Currency  string
}

type view struct {
	Label       string
	RiskLevel   int
	Score       int
	MaxScore    int
	Description string
	Holdings    []holdingView
	Simulation  *simulationView
	Disclaimer  string
}

type holdingView struct {
	Ticker    string
	Name      string
	WeightPct string
	AssetType string
	Risk      string
}

type simulationView struct {
	Start, End  string
	Initial     string
	Final       string
	Profit      string
	TotalReturn string
	Annualized  string
	Volatility  string
	Sharpe      string
	MaxDrawdown string
	Yearly      []yearView
	Warnings    []string
}

type yearView struct {
	Year   int
	Return string
}

// Markdown renders the report.
func Markdown(cat *catalog.Catalog, in Input) (string, error) {
	if !in.Bucket.Valid() {
		return "", fmt.Errorf("%w: %d", catalog.ErrUnknownBucket, in.Bucket)
	}
	cur := in.Currency
	if cur == "" {
		cur = DefaultCurrency
	}

	v := view{
		Label:       in.Bucket.Label(),
		RiskLevel:   in.Bucket.RiskLevel(),
		Score:       in.Score,
		MaxScore:    scoring.MaxScore,
		Description: scoring.Describe(in.Bucket),
		Disclaimer:  scoring.Disclaimer,
	}
	for _, h := range in.Portfolio {
		hv := holdingView{Ticker: h.Ticker, WeightPct: catalog.WeightPercent(h.Weight)}
		if info, err := cat.ETF(h.Ticker); err == nil {
			hv.Name = info.Name
			hv.AssetType = info.AssetType
			hv.Risk = info.Risk
		}
		v.Holdings = append(v.Holdings, hv)
	}
	if in.Result != nil {
		v.Simulation = simulation(in.Result, cur)
	}

	var b strings.Builder
	if err := reportTmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

func simulation(res *backtest.Result, cur string) *simulationView {
	s := res.Stats
	sv := &simulationView{
		Start:       res.Start.Format(time.DateOnly),
		End:         res.End.Format(time.DateOnly),
		Initial:     FormatMoney(s.Initial, cur),
		Final:       FormatMoney(s.Final, cur),
		Profit:      FormatMoney(s.Profit, cur),
		TotalReturn: FormatPercent(s.TotalReturnPct),
		Annualized:  FormatPercent(s.AnnualizedReturnPct()),
		Volatility:  fmt.Sprintf("%.2f%%", s.VolatilityPct),
		Sharpe:      fmt.Sprintf("%.2f", s.Sharpe),
		MaxDrawdown: FormatPercent(s.MaxDrawdownPct),
	}
	for _, y := range res.Yearly {
		sv.Yearly = append(sv.Yearly, yearView{Year: y.Year, Return: FormatPercent(y.ReturnPct)})
	}
	for _, w := range res.Warnings {
		sv.Warnings = append(sv.Warnings, w.String())
	}
	return sv
}

const notAvailable = "n/a"

// FormatMoney formats an amount in the currency's conventions, rounded to
// its minor unit ("$10,000.00").
func FormatMoney(amount float64, currency string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return notAvailable
	}
	// money.New never returns a nil currency.
	cur := *money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPercent formats a percentage with an explicit sign ("+4.25%").
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return notAvailable
	}
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Render formats markdown for a terminal. style is a glamour standard style
// ("dark", "light", "notty", ...); width 0 disables word wrap.
func Render(markdown, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
