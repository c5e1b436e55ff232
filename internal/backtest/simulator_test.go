package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"robo-advisor/internal/data"
	"robo-advisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFetcher serves fixed series and fails for everything else.
type mapFetcher struct {
	series map[string]model.PriceSeries
	starts []time.Time
	ends   []time.Time
}

func (m *mapFetcher) FetchCloses(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	m.starts = append(m.starts, start)
	m.ends = append(m.ends, end)
	s, ok := m.series[ticker]
	if !ok {
		return model.PriceSeries{}, &data.ProviderError{Code: data.CodeNotFound, Message: fmt.Sprintf("no data for %s", ticker)}
	}
	return s, nil
}

func newTestSimulator(f data.Fetcher) *Simulator {
	now := func() time.Time { return time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC) }
	return NewSimulator(data.NewHistory(f, data.NewMemoryCache(0), nil), SimulatorOptions{Now: now}, nil)
}

func TestSimulator_Window(t *testing.T) {
	s := newTestSimulator(&mapFetcher{})
	start, end := s.Window(1)
	assert.Equal(t, day("2024-06-15"), end)
	assert.Equal(t, day("2023-06-16"), start)

	start, _ = s.Window(10)
	assert.Equal(t, day("2014-06-18"), start)
}

func TestSimulator_Simulate(t *testing.T) {
	f := &mapFetcher{series: map[string]model.PriceSeries{
		"A": prices("A", 100, 101, 98.98),
		"B": prices("B", 50, 50, 50.5),
	}}
	s := newTestSimulator(f)

	res, err := s.Simulate(context.Background(), model.SimulationInputs{
		Weights:       map[string]float64{"A": 0.6, "B": 0.4},
		Initial:       10000,
		LookbackYears: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.InDelta(t, 9979.52, res.Stats.Final, 1e-6)
	assert.Equal(t, day("2014-06-18"), f.starts[0])
	assert.Equal(t, day("2024-06-15"), f.ends[0])
}

func TestSimulator_PartialFailure(t *testing.T) {
	f := &mapFetcher{series: map[string]model.PriceSeries{"A": prices("A", 100, 110)}}
	s := newTestSimulator(f)

	res, err := s.Simulate(context.Background(), model.SimulationInputs{
		Weights:       map[string]float64{"A": 0.6, "B": 0.4},
		Initial:       10000,
		LookbackYears: 1,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "B", res.Warnings[0].Ticker)
	assert.Equal(t, []string{"A"}, res.Tickers)
	// The surviving weight is used as is.
	assert.InDelta(t, 10600, res.Stats.Final, 1e-9)
}

func TestSimulator_AllFail(t *testing.T) {
	s := newTestSimulator(&mapFetcher{})
	_, err := s.Simulate(context.Background(), model.SimulationInputs{
		Weights:       map[string]float64{"A": 0.5, "B": 0.5},
		Initial:       10000,
		LookbackYears: 10,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestSimulator_InvalidInputs(t *testing.T) {
	s := newTestSimulator(&mapFetcher{})
	tests := []struct {
		name string
		in   model.SimulationInputs
	}{
		{"no weights", model.SimulationInputs{Initial: 1, LookbackYears: 1}},
		{"negative weight", model.SimulationInputs{Weights: map[string]float64{"A": -0.1}, Initial: 1, LookbackYears: 1}},
		{"weight above one", model.SimulationInputs{Weights: map[string]float64{"A": 1.5}, Initial: 1, LookbackYears: 1}},
		{"weights sum above one", model.SimulationInputs{Weights: map[string]float64{"A": 1, "B": 1}, Initial: 1, LookbackYears: 1}},
		{"weights sum below one", model.SimulationInputs{Weights: map[string]float64{"A": 0.3, "B": 0.3}, Initial: 1, LookbackYears: 1}},
		{"zero initial", model.SimulationInputs{Weights: map[string]float64{"A": 1}, LookbackYears: 1}},
		{"zero lookback", model.SimulationInputs{Weights: map[string]float64{"A": 1}, Initial: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Simulate(context.Background(), tt.in)
			assert.True(t, errors.Is(err, ErrInvalidSimulation), "got %v", err)
		})
	}
}

func TestSimulator_SimulateBatch(t *testing.T) {
	f := &mapFetcher{series: map[string]model.PriceSeries{
		"A": prices("A", 100, 110),
		"B": prices("B", 50, 45),
	}}
	s := newTestSimulator(f)

	res, err := s.SimulateBatch(context.Background(), []map[string]float64{
		{"A": 1},
		{"A": 0.5, "B": 0.5},
		{"C": 1},
	}, 1000, 5)
	require.NoError(t, err)
	require.Len(t, res, 3)
	// Each ticker is fetched once.
	assert.Len(t, f.starts, 3)

	assert.InDelta(t, 1100, res[0].Stats.Final, 1e-9)
	assert.InDelta(t, 1000, res[1].Stats.Final, 1e-9)
	assert.Empty(t, res[1].Warnings)
	assert.Nil(t, res[2])

	_, err = s.SimulateBatch(context.Background(), []map[string]float64{{"C": 1}}, 1000, 5)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	_, err = s.SimulateBatch(context.Background(), nil, 1000, 5)
	assert.True(t, errors.Is(err, ErrInvalidSimulation))
}
