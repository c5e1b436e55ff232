package model

// SimulationInputs is the canonical input of a historical simulation.
//
// Weights are used as given: tickers that cannot be fetched are dropped
// without renormalizing the remaining weights.
type SimulationInputs struct {
	Weights       map[string]float64
	Initial       float64
	LookbackYears float64
}
