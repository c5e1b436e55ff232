package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"robo-advisor/internal/model"

	"github.com/shopspring/decimal"
)

// CSVHeader is the header row of the portfolio export.
var CSVHeader = []string{"ETF", "Nombre", "Peso %", "Tipo", "Descripción"}

// WritePortfolioCSV writes one row per holding: ticker, name, weight %, asset type, description.
func WritePortfolioCSV(w io.Writer, p model.Portfolio, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, h := range p {
		info, err := c.ETF(h.Ticker)
		if err != nil {
			return err
		}
		row := []string{
			h.Ticker,
			info.Name,
			WeightPercent(h.Weight),
			info.AssetType,
			info.Description,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WeightPercent formats a weight as a percentage with two decimals (0.45 → "45.00").
func WeightPercent(w float64) string {
	return decimal.NewFromFloat(w).Shift(2).StringFixed(2)
}

// ExportFilename is the download name of a bucket's export.
func ExportFilename(b model.Bucket) string {
	return fmt.Sprintf("portfolio_%s.csv", strings.ReplaceAll(b.Label(), " ", "_"))
}
