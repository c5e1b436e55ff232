package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"robo-advisor/internal/model"
)

// Snapshot is a saved set of price series, used for offline simulations.
type Snapshot struct {
	UpdatedAt string              `json:"updated_at"` // ISO 8601 timestamp
	Series    []model.PriceSeries `json:"series"`
}

// LoadSnapshot loads a snapshot from a JSON file.
func LoadSnapshot(filePath string) (*Snapshot, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return &s, nil
}

// SaveSnapshot saves a snapshot to a JSON file.
func SaveSnapshot(s *Snapshot, filePath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// FileFetcher serves closes from an in-memory snapshot.
type FileFetcher struct {
	byTicker map[string]model.PriceSeries
}

// NewFileFetcher indexes the snapshot series by ticker.
func NewFileFetcher(s *Snapshot) *FileFetcher {
	f := &FileFetcher{byTicker: make(map[string]model.PriceSeries)}
	if s == nil {
		return f
	}
	for _, ser := range s.Series {
		f.byTicker[ser.Ticker] = ser
	}
	return f
}

// OpenFileFetcher loads a snapshot file, or a single saved chart response
// when the file is not a snapshot.
func OpenFileFetcher(path string) (*FileFetcher, error) {
	s, err := LoadSnapshot(path)
	if err == nil && len(s.Series) > 0 {
		return NewFileFetcher(s), nil
	}
	series, cerr := LoadChartJSON(path)
	if cerr != nil {
		if err != nil {
			return nil, err
		}
		return nil, cerr
	}
	return NewFileFetcher(&Snapshot{Series: []model.PriceSeries{series}}), nil
}

// FetchCloses returns the snapshot points of ticker within [start, end].
func (f *FileFetcher) FetchCloses(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	ser, ok := f.byTicker[ticker]
	if !ok {
		return model.PriceSeries{}, &ProviderError{Code: CodeNotFound, Message: fmt.Sprintf("no data for %s", ticker)}
	}
	from, to := model.Day(start), model.Day(end)
	out := model.PriceSeries{Ticker: ticker}
	for _, p := range ser.Points {
		d := model.Day(p.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		out.Points = append(out.Points, model.PricePoint{Date: d, Close: p.Close})
	}
	if len(out.Points) == 0 {
		return model.PriceSeries{}, &ProviderError{Code: CodeEmptySeries, Message: fmt.Sprintf("no closes for %s in range", ticker)}
	}
	return out, nil
}

// Tickers lists the tickers available in the snapshot.
func (f *FileFetcher) Tickers() []string {
	out := make([]string, 0, len(f.byTicker))
	for t := range f.byTicker {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
