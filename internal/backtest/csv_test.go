package backtest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"robo-advisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLedger(t *testing.T) {
	res, err := New().Run([]model.PriceSeries{prices("A", 100, 90, 99)}, map[string]float64{"A": 1}, 1000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, res.Ledger))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"index", "date", "portfolio_return", "value", "running_max", "drawdown_pct"}, rows[0])
	assert.Equal(t, []string{"1", "2024-01-03", "-0.100000", "900.000000", "1000.000000", "-10.000000"}, rows[2])
}

func TestWriteLedgerCSV_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "value.csv")
	require.NoError(t, WriteLedgerCSV(path, []LedgerRow{{Index: 0, Date: day("2024-01-02"), Value: 1}}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2024-01-02")
}
