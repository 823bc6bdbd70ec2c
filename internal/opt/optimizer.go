package opt

import (
	"context"
	"time"
)

// Optimizer defines a derivative-free minimization algorithm interface
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// bounds: one (lower, upper) pair per dimension
	// Returns: a report with the best parameters and run statistics.
	// A cancelled run returns the partial report alongside ctx.Err().
	Run(ctx context.Context, eval func([]float64) float64, bounds [][2]float64) (*Report, error)
}

// Report summarizes one optimization run
type Report struct {
	Position    []float64
	Cost        float64
	Iterations  int
	Evaluations int
	Converged   bool
	// Outcome is the algorithm's own terminal-state label, more precise
	// than Converged (it distinguishes an exhausted budget from a
	// cancellation).
	Outcome string
	Elapsed time.Duration
}
