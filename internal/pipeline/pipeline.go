package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cwbudde/cuckoosearch/cuckoo"
	"github.com/cwbudde/cuckoosearch/internal/opt"
)

// Progress carries one generation's statistics to the sinks attached to a
// run. Elapsed is measured from the start of the whole run series, so
// throughput derived from it stays meaningful across restarts. BestNest is
// a private copy; sinks may retain it.
type Progress struct {
	Restart     int           `json:"restart"`
	Iteration   int           `json:"iteration"`
	BestNest    []float64     `json:"bestNest,omitempty"`
	BestFitness float64       `json:"bestFitness"`
	MeanFitness float64       `json:"meanFitness"`
	Evaluations int           `json:"evaluations"`
	Saturation  int           `json:"saturation"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Sink consumes per-generation progress. Implementations must be fast;
// they run on the engine's goroutine between generations.
type Sink interface {
	OnProgress(Progress)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Progress)

func (f SinkFunc) OnProgress(p Progress) { f(p) }

// MultiSink fans progress out to several sinks in order. Nil entries are
// skipped.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(p Progress) {
		for _, s := range sinks {
			if s != nil {
				s.OnProgress(p)
			}
		}
	})
}

// RunResult holds the outcome of a run series.
type RunResult struct {
	Spec RunSpec `json:"spec"`

	BestNest    []float64 `json:"bestNest"`
	BestFitness float64   `json:"bestFitness"`

	// InitialFitness is the best fitness of the first restart's initial
	// population, recorded as a baseline for how much the search improved.
	InitialFitness float64 `json:"initialFitness"`

	// Iterations counts generations of the winning restart; Evaluations
	// counts objective calls across the whole series.
	Iterations  int `json:"iterations"`
	Evaluations int `json:"evaluations"`

	// RestartsRun is the number of restarts actually started.
	RestartsRun int `json:"restartsRun"`

	Outcome cuckoo.Outcome `json:"outcome"`
	Elapsed time.Duration  `json:"elapsed"`
}

// Execute runs the spec exactly once, ignoring Restarts. Most callers want
// ExecuteRestarts, which collapses to a single run when Restarts is 1.
func Execute(ctx context.Context, spec RunSpec, sink Sink) (*RunResult, error) {
	single := spec
	single.Restarts = 1
	return ExecuteRestarts(ctx, single, sink)
}

// ExecuteRestarts runs the spec as a series of independent restarts, seeded
// Seed, Seed+1, ... and keeps the best result. On cancellation it returns
// the best result found so far together with the context's error.
func ExecuteRestarts(ctx context.Context, spec RunSpec, sink Sink) (*RunResult, error) {
	f, bounds, err := spec.resolve()
	if err != nil {
		return nil, err
	}

	n := spec.restarts()
	start := time.Now()

	slog.Info("Starting run series",
		"objective", f.Name,
		"dim", f.Dim,
		"pop", spec.Pop,
		"seed", spec.Seed,
		"restarts", n,
		"workers", spec.Workers)

	// The first progress event of the first restart carries the best
	// fitness of the freshly sampled population.
	var baseline float64
	baselineSet := false
	capture := SinkFunc(func(p Progress) {
		if !baselineSet {
			baseline = p.BestFitness
			baselineSet = true
		}
		if sink != nil {
			sink.OnProgress(p)
		}
	})

	var best *opt.Report
	totalEvals := 0

	for i := 0; i < n; i++ {
		res, err := executeOnce(ctx, spec, f.Objective, bounds, capture, i, start)
		if res != nil {
			totalEvals += res.Evaluations
			if best == nil || res.Cost < best.Cost {
				best = res
			}
		}
		if err != nil {
			if best == nil {
				return nil, err
			}
			out := seriesResult(spec, best, baseline, totalEvals, i+1, start)
			out.Outcome = cuckoo.OutcomeCancelled
			return out, err
		}

		slog.Info("Restart complete",
			"restart", i,
			"best_fitness", res.Cost,
			"iterations", res.Iterations,
			"outcome", res.Outcome)
	}

	out := seriesResult(spec, best, baseline, totalEvals, n, start)
	slog.Info("Run series complete",
		"best_fitness", out.BestFitness,
		"initial_fitness", out.InitialFitness,
		"evaluations", out.Evaluations,
		"outcome", out.Outcome)
	return out, nil
}

// executeOnce drives a single restart through the Optimizer seam,
// forwarding generation progress to the sink tagged with the restart index.
func executeOnce(ctx context.Context, spec RunSpec, objective func([]float64) float64, bounds [][2]float64, sink Sink, restart int, start time.Time) (*opt.Report, error) {
	seed := spec.Seed + int64(restart)
	cfg := spec.engineConfig(objective, bounds, seed)
	if sink != nil {
		cfg.OnGeneration = func(p cuckoo.Progress) {
			sink.OnProgress(Progress{
				Restart:     restart,
				Iteration:   p.Iteration,
				BestNest:    p.BestNest,
				BestFitness: p.BestFitness,
				MeanFitness: p.MeanFitness,
				Evaluations: p.Evaluations,
				Saturation:  p.Saturation,
				Elapsed:     time.Since(start),
			})
		}
	}
	return opt.NewCuckooFromConfig(cfg, seed).Run(ctx, objective, bounds)
}

func seriesResult(spec RunSpec, best *opt.Report, baseline float64, totalEvals, restartsRun int, start time.Time) *RunResult {
	return &RunResult{
		Spec:           spec,
		BestNest:       best.Position,
		BestFitness:    best.Cost,
		InitialFitness: baseline,
		Iterations:     best.Iterations,
		Evaluations:    totalEvals,
		RestartsRun:    restartsRun,
		Outcome:        cuckoo.Outcome(best.Outcome),
		Elapsed:        time.Since(start),
	}
}
