package handlers

import (
	"sync"

	"robo-advisor/internal/backtest"

	"github.com/google/uuid"
)

// DefaultStoreSize bounds how many simulation results are kept for
// later series downloads.
const DefaultStoreSize = 256

// ResultStore keeps recent simulation results in memory, keyed by id.
// The oldest result is evicted once the store is full.
type ResultStore struct {
	mu    sync.RWMutex
	max   int
	order []string
	byID  map[string]*backtest.Result
}

func NewResultStore(max int) *ResultStore {
	if max <= 0 {
		max = DefaultStoreSize
	}
	return &ResultStore{max: max, byID: make(map[string]*backtest.Result)}
}

// Put stores res and returns its new id.
func (s *ResultStore) Put(res *backtest.Result) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) >= s.max {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	s.byID[id] = res
	s.order = append(s.order, id)
	return id
}

func (s *ResultStore) Get(id string) (*backtest.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.byID[id]
	return res, ok
}

func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
