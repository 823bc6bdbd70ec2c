// Package cuckoo implements Cuckoo Search, a derivative-free population
// optimizer for box-constrained minimization. Candidate nests explore the
// search space with Lévy flights sampled via Mantegna's algorithm, weak
// nests are abandoned with probability PDiscovery, and a greedy elitist
// selection keeps the best fitness non-increasing across generations. Runs
// are exactly reproducible for a fixed seed.
package cuckoo

import (
	"context"
	"math/rand"
	"time"
)

// Optimize runs the search to completion with the given configuration.
func Optimize(cfg Config) (*Result, error) {
	return OptimizeContext(context.Background(), cfg)
}

// OptimizeContext runs the search, checking ctx at each generation boundary.
// On cancellation it returns the best result found so far together with the
// context's error; there is no mid-generation preemption.
func OptimizeContext(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	bounds := normalizeBounds(cfg.Bounds)
	dim := len(bounds)
	sigma := mantegnaSigma(cfg.Beta)
	ev := evaluator{fn: cfg.ObjectiveFunc, workers: cfg.Workers}

	start := time.Now()

	nests := initPopulation(rng, bounds, cfg.NPop)
	if cfg.InitialGuess != nil {
		copy(nests[0], cfg.InitialGuess)
		project(nests[:1], bounds)
	}
	fitness := make([]float64, cfg.NPop)
	ev.evalAll(nests, fitness)
	evals := cfg.NPop

	bestIdx := rank(fitness)
	best := append([]float64(nil), nests[bestIdx]...)
	bestFit := fitness[bestIdx]

	mon := newMonitor(cfg)
	cand := newMatrix(cfg.NPop, dim)
	candFit := make([]float64, cfg.NPop)

	steps := 1
	outcome := OutcomeBudgetExhausted

	// The initial population counts as generation 1, so hooks see the
	// starting point of the search before any moves happen.
	if cfg.OnGeneration != nil {
		cfg.OnGeneration(Progress{
			Iteration:   steps,
			BestNest:    append([]float64(nil), best...),
			BestFitness: bestFit,
			MeanFitness: meanFitness(fitness),
			Evaluations: evals,
		})
	}

	for steps < cfg.MaxIterations {
		if ctx.Err() != nil {
			return result(best, bestFit, start, evals, steps, OutcomeCancelled), ctx.Err()
		}

		levyStep(cand, nests, best, cfg.Alpha, cfg.Beta, sigma, rng)
		if !cfg.Unconstrained {
			project(cand, bounds)
		}
		ev.evalAll(cand, candFit)
		evals += cfg.NPop
		greedySelect(nests, fitness, cand, candFit)

		discover(cand, nests, cfg.PDiscovery, rng)
		if !cfg.Unconstrained {
			project(cand, bounds)
		}
		ev.evalAll(cand, candFit)
		evals += cfg.NPop
		greedySelect(nests, fitness, cand, candFit)

		bestIdx = rank(fitness)
		copy(best, nests[bestIdx])
		bestFit = fitness[bestIdx]

		stop := mon.update(bestFit, best, fitness, nests)
		steps++

		if cfg.OnGeneration != nil {
			cfg.OnGeneration(Progress{
				Iteration:   steps,
				BestNest:    append([]float64(nil), best...),
				BestFitness: bestFit,
				MeanFitness: meanFitness(fitness),
				Evaluations: evals,
				Saturation:  mon.saturation,
			})
		}

		if stop {
			outcome = OutcomeConverged
			break
		}
	}

	return result(best, bestFit, start, evals, steps, outcome), nil
}

func result(best []float64, bestFit float64, start time.Time, evals, steps int, outcome Outcome) *Result {
	return &Result{
		BestNest:    append([]float64(nil), best...),
		BestFitness: bestFit,
		Details: Details{
			Elapsed:     time.Since(start),
			Evaluations: evals,
			Iterations:  steps,
			Outcome:     outcome,
		},
	}
}

func meanFitness(fitness []float64) float64 {
	var sum float64
	for _, f := range fitness {
		sum += f
	}
	return sum / float64(len(fitness))
}
