package opt

import (
	"context"
	"math/rand"

	"github.com/cwbudde/cuckoosearch/cuckoo"
)

// CuckooAdapter wraps the cuckoo search engine to conform to our Optimizer interface
type CuckooAdapter struct {
	cfg  cuckoo.Config
	seed int64
}

// NewCuckoo creates a cuckoo search adapter with default engine parameters
func NewCuckoo(maxIters, popSize int, seed int64) Optimizer {
	cfg := cuckoo.NewDefaultConfig()
	cfg.MaxIterations = maxIters
	cfg.NPop = popSize
	return &CuckooAdapter{cfg: cfg, seed: seed}
}

// NewCuckooFromConfig creates an adapter with fully caller-controlled engine
// parameters. ObjectiveFunc, Bounds and Rand are overwritten on each Run.
func NewCuckooFromConfig(cfg cuckoo.Config, seed int64) Optimizer {
	return &CuckooAdapter{cfg: cfg, seed: seed}
}

// Run executes the cuckoo search over the given bounds
func (c *CuckooAdapter) Run(ctx context.Context, eval func([]float64) float64, bounds [][2]float64) (*Report, error) {
	cfg := c.cfg
	cfg.ObjectiveFunc = eval
	cfg.Bounds = bounds

	// Fresh generator per run so the adapter itself is reusable and
	// deterministic for a fixed seed.
	cfg.Rand = rand.New(rand.NewSource(c.seed))

	res, err := cuckoo.OptimizeContext(ctx, cfg)
	if res == nil {
		return nil, err
	}

	// The engine hands back the best found so far even when the context
	// was cancelled; forward both so callers keep the partial result.
	return &Report{
		Position:    res.BestNest,
		Cost:        res.BestFitness,
		Iterations:  res.Details.Iterations,
		Evaluations: res.Details.Evaluations,
		Converged:   res.Details.Outcome == cuckoo.OutcomeConverged,
		Outcome:     string(res.Details.Outcome),
		Elapsed:     res.Details.Elapsed,
	}, err
}
