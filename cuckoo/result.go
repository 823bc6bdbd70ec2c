package cuckoo

import "time"

// Outcome reports which stop condition ended a run.
type Outcome string

const (
	// OutcomeConverged means the convergence monitor fired, either by
	// saturation of the best fitness or by population collapse.
	OutcomeConverged Outcome = "converged"

	// OutcomeBudgetExhausted means the iteration ceiling was reached
	// before the monitor fired. The best candidate found so far is still
	// returned; this is a defined terminal state, not an error.
	OutcomeBudgetExhausted Outcome = "budget-exhausted"

	// OutcomeCancelled means the caller's context was cancelled at a
	// generation boundary.
	OutcomeCancelled Outcome = "cancelled"
)

// Details describes how a run progressed.
type Details struct {
	Elapsed     time.Duration `json:"elapsed"`
	Evaluations int           `json:"evaluations"`
	Iterations  int           `json:"iterations"`
	Outcome     Outcome       `json:"outcome"`
}

// Result holds the output of a search run.
type Result struct {
	BestNest    []float64 `json:"bestNest"`
	BestFitness float64   `json:"bestFitness"`
	Details     Details   `json:"details"`
}
