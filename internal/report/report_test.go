package report

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/data"
	"robo-advisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline parses markdown and returns its headings and the row count of each table.
func outline(t *testing.T, md string) (headings []string, tableRows []int) {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			headings = append(headings, nodeText(n, src))
		case *east.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					rows++
				}
			}
			tableRows = append(tableRows, rows)
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return headings, tableRows
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if tn, ok := c.(*ast.Text); ok && entering {
			b.Write(tn.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func TestMarkdown_ProfileOnly(t *testing.T) {
	cat := catalog.MustDefault()
	p, err := cat.Portfolio(model.BucketBalanced)
	require.NoError(t, err)

	md, err := Markdown(cat, Input{Bucket: model.BucketBalanced, Score: 30, Portfolio: p})
	require.NoError(t, err)

	headings, tables := outline(t, md)
	assert.Equal(t, []string{"Perfil: Balanceado (3/5)", "Cartera recomendada"}, headings)
	// Body rows only; the header row is a TableHeader node.
	assert.Equal(t, []int{len(p)}, tables)
	assert.Contains(t, md, "Puntaje: **30/50**")
	assert.Contains(t, md, "| ACWI |")
	assert.Contains(t, md, "40.00")
}

func TestMarkdown_WithSimulation(t *testing.T) {
	cat := catalog.MustDefault()
	p, err := cat.Portfolio(model.BucketConservative)
	require.NoError(t, err)

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	series := []model.PriceSeries{{
		Ticker: "AGG",
		Points: []model.PricePoint{
			{Date: day(2022, 12, 30), Close: 100},
			{Date: day(2023, 12, 29), Close: 105},
			{Date: day(2024, 6, 14), Close: 103},
		},
	}}
	res, err := backtest.New().Run(series, map[string]float64{"AGG": 0.45}, 10000)
	require.NoError(t, err)
	res.Warnings = []data.Warning{{Ticker: "BIL", Err: errors.New("timeout")}}

	md, err := Markdown(cat, Input{Bucket: model.BucketConservative, Portfolio: p, Result: res})
	require.NoError(t, err)

	headings, tables := outline(t, md)
	assert.Equal(t, []string{
		"Perfil: Conservador (1/5)",
		"Cartera recomendada",
		"Simulación histórica (2022-12-30 a 2024-06-14)",
		"Rendimientos anuales",
		"Advertencias",
	}, headings)
	require.Len(t, tables, 3)
	assert.Equal(t, 8, tables[1])
	assert.Equal(t, len(res.Yearly), tables[2])
	assert.Contains(t, md, "$10,000.00")
	assert.Contains(t, md, "no data for BIL")
	assert.NotContains(t, md, "Puntaje")
}

func TestMarkdown_InvalidBucket(t *testing.T) {
	_, err := Markdown(catalog.MustDefault(), Input{Bucket: model.Bucket(9)})
	assert.True(t, errors.Is(err, catalog.ErrUnknownBucket))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$10,000.00", FormatMoney(10000, "USD"))
	assert.Equal(t, "-$1,234.57", FormatMoney(-1234.567, "USD"))
	assert.Equal(t, "$0.00", FormatMoney(0, DefaultCurrency))
	assert.Equal(t, "n/a", FormatMoney(math.NaN(), "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+4.25%", FormatPercent(4.25))
	assert.Equal(t, "-10.00%", FormatPercent(-10))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "0.00%", FormatPercent(0.001))
	assert.Equal(t, "n/a", FormatPercent(math.NaN()))
	assert.Equal(t, "n/a", FormatPercent(math.Inf(-1)))
}

func TestRender(t *testing.T) {
	out, err := Render("# Perfil\n\nHola", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Perfil")
	assert.Contains(t, out, "Hola")
}
