package handlers

import (
	"sync"
	"testing"

	"robo-advisor/internal/backtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStore_Evicts(t *testing.T) {
	s := NewResultStore(2)
	first := s.Put(&backtest.Result{Tickers: []string{"A"}})
	second := s.Put(&backtest.Result{Tickers: []string{"B"}})
	third := s.Put(&backtest.Result{Tickers: []string{"C"}})

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(first)
	assert.False(t, ok)

	res, ok := s.Get(second)
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, res.Tickers)
	_, ok = s.Get(third)
	assert.True(t, ok)
}

func TestResultStore_Concurrent(t *testing.T) {
	s := NewResultStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Put(&backtest.Result{})
			_, ok := s.Get(id)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
