package cuckoo

import (
	"math/rand"
)

// ObjectiveFunc evaluates one candidate position and returns its cost.
// Implementations must be pure and deterministic: reproducibility of a run
// and the correctness of parallel evaluation both depend on it. A non-finite
// return value (NaN or ±Inf) is treated as +Inf fitness, so the candidate
// loses every comparison but never aborts the search.
type ObjectiveFunc func(x []float64) float64

// Progress carries per-generation statistics to an OnGeneration hook.
// BestNest is a private copy; hooks may retain or mutate it freely.
type Progress struct {
	Iteration   int
	BestNest    []float64
	BestFitness float64
	MeanFitness float64
	Evaluations int
	Saturation  int
}

// Config holds all tunable parameters for a search run. Zero values are not
// usable; start from NewDefaultConfig and override fields explicitly.
type Config struct {
	// ObjectiveFunc is the function to minimize. Required.
	ObjectiveFunc ObjectiveFunc

	// Bounds holds one (lower, upper) pair per dimension. Rows need not be
	// pre-sorted; reversed pairs are normalized before the run starts.
	// The dimensionality of the search space is len(Bounds). Required.
	Bounds [][2]float64

	// NPop is the number of nests (population size).
	NPop int

	// MaxIterations caps the number of generations. Reaching it is a
	// defined outcome (OutcomeBudgetExhausted), not an error.
	MaxIterations int

	// Alpha scales the Lévy step length.
	Alpha float64

	// Beta is the Lévy stability exponent, valid in (1, 2]. It
	// parameterizes the tail of the step distribution and should not be
	// changed casually.
	Beta float64

	// PDiscovery is the per-entry probability that a nest coordinate is
	// abandoned and replaced during the discovery phase, in [0, 1].
	PDiscovery float64

	// FitnessTol is the minimum best-fitness improvement per generation
	// that counts as progress. Smaller improvements increment the
	// saturation counter.
	FitnessTol float64

	// PositionTol bounds the fitness and position spread below which the
	// population is considered collapsed.
	PositionTol float64

	// MaxSaturation is the number of consecutive stagnant generations
	// after which the run stops as converged.
	MaxSaturation int

	// Unconstrained skips boundary projection after each move. Bounds are
	// still required to sample the initial population.
	Unconstrained bool

	// Workers sets the number of goroutines used to evaluate the
	// population. Values below 2 keep evaluation on the calling
	// goroutine. Results are identical either way.
	Workers int

	// Rand is the random stream used for every stochastic step. Supplying
	// a seeded generator makes the run exactly reproducible. When nil the
	// engine falls back to a fixed seed of 1.
	Rand *rand.Rand

	// InitialGuess, when set, is projected into bounds and pinned as the
	// first nest of the initial population. Used to warm-start a run from
	// a previously found solution.
	InitialGuess []float64

	// OnGeneration, when set, is invoked with current search statistics
	// once for the initial population (generation 1) and then once per
	// generation. It must not block for long and must not mutate anything
	// the engine owns.
	OnGeneration func(Progress)
}

// NewDefaultConfig returns a Config with standard parameter values.
// ObjectiveFunc and Bounds must be set by the caller.
func NewDefaultConfig() Config {
	return Config{
		NPop:          25,
		MaxIterations: 10000,
		Alpha:         1.0,
		Beta:          1.5,
		PDiscovery:    0.25,
		FitnessTol:    1e-10,
		PositionTol:   1e-8,
		MaxSaturation: 50,
		Workers:       1,
	}
}

// validate fails fast on an unusable configuration, before any evaluation.
func (c *Config) validate() error {
	if c.ObjectiveFunc == nil {
		return &ConfigError{Field: "ObjectiveFunc", Reason: "must not be nil"}
	}
	if len(c.Bounds) == 0 {
		return &ConfigError{Field: "Bounds", Reason: "need at least one dimension"}
	}
	if c.NPop <= 0 {
		return &ConfigError{Field: "NPop", Reason: "must be positive"}
	}
	if c.MaxIterations <= 0 {
		return &ConfigError{Field: "MaxIterations", Reason: "must be positive"}
	}
	if c.Alpha <= 0 {
		return &ConfigError{Field: "Alpha", Reason: "must be positive"}
	}
	if c.Beta <= 1 || c.Beta > 2 {
		return &ConfigError{Field: "Beta", Reason: "must be in (1, 2]"}
	}
	if c.PDiscovery < 0 || c.PDiscovery > 1 {
		return &ConfigError{Field: "PDiscovery", Reason: "must be in [0, 1]"}
	}
	if c.FitnessTol < 0 {
		return &ConfigError{Field: "FitnessTol", Reason: "must not be negative"}
	}
	if c.PositionTol < 0 {
		return &ConfigError{Field: "PositionTol", Reason: "must not be negative"}
	}
	if c.MaxSaturation <= 0 {
		return &ConfigError{Field: "MaxSaturation", Reason: "must be positive"}
	}
	if c.InitialGuess != nil && len(c.InitialGuess) != len(c.Bounds) {
		return &ConfigError{Field: "InitialGuess", Reason: "length must match Bounds"}
	}
	return nil
}

// ConfigError reports a configuration field that prevents a run from
// starting. Use errors.As to inspect the offending field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid config: " + e.Field + " " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}
