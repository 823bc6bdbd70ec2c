// Package pipeline turns declarative run specifications into executed
// search runs: it resolves benchmark objectives, drives the engine, fans
// per-generation progress out to sinks and coordinates restart series.
package pipeline

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/cuckoosearch/cuckoo"
	"github.com/cwbudde/cuckoosearch/internal/bench"
)

// RunSpec declares everything needed to reproduce a search run. The zero
// value is not usable; start from DefaultRunSpec and override fields, or
// load a YAML document over the defaults with LoadSpec.
type RunSpec struct {
	// Objective names a registered benchmark function.
	Objective string `yaml:"objective" json:"objective"`

	// Dim overrides the objective's default dimensionality. Zero keeps
	// the registry default.
	Dim int `yaml:"dim,omitempty" json:"dim,omitempty"`

	// Bounds overrides the objective's domain. A single pair is
	// broadcast across all dimensions; otherwise one pair per dimension.
	Bounds [][2]float64 `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	Pop           int     `yaml:"pop" json:"pop"`
	MaxIterations int     `yaml:"max_iterations" json:"maxIterations"`
	Alpha         float64 `yaml:"alpha" json:"alpha"`
	Beta          float64 `yaml:"beta" json:"beta"`
	PDiscovery    float64 `yaml:"p_discovery" json:"pDiscovery"`
	FitnessTol    float64 `yaml:"fitness_tol" json:"fitnessTol"`
	PositionTol   float64 `yaml:"position_tol" json:"positionTol"`
	MaxSaturation int     `yaml:"max_saturation" json:"maxSaturation"`
	Unconstrained bool    `yaml:"unconstrained,omitempty" json:"unconstrained,omitempty"`

	// Seed fixes the random stream. Restart i runs with Seed+i.
	Seed int64 `yaml:"seed" json:"seed"`

	// Restarts is the number of independent runs to execute; the best
	// result wins. Values below 1 mean a single run.
	Restarts int `yaml:"restarts,omitempty" json:"restarts,omitempty"`

	// Workers is the number of goroutines for objective evaluation.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// InitialGuess warm-starts the run by pinning this position into the
	// initial population. Used when resuming from a checkpoint.
	InitialGuess []float64 `yaml:"initial_guess,omitempty" json:"initialGuess,omitempty"`

	// CheckpointSec is the periodic checkpoint interval in seconds for
	// managed runs. Zero disables periodic checkpoints.
	CheckpointSec int `yaml:"checkpoint_sec,omitempty" json:"checkpointSec,omitempty"`
}

// DefaultRunSpec mirrors the engine defaults with a fixed seed.
func DefaultRunSpec() RunSpec {
	cfg := cuckoo.NewDefaultConfig()
	return RunSpec{
		Pop:           cfg.NPop,
		MaxIterations: cfg.MaxIterations,
		Alpha:         cfg.Alpha,
		Beta:          cfg.Beta,
		PDiscovery:    cfg.PDiscovery,
		FitnessTol:    cfg.FitnessTol,
		PositionTol:   cfg.PositionTol,
		MaxSaturation: cfg.MaxSaturation,
		Seed:          1,
		Restarts:      1,
		Workers:       cfg.Workers,
	}
}

// LoadSpec reads a YAML run specification, layered over the defaults so a
// partial document only overrides what it names.
func LoadSpec(path string) (RunSpec, error) {
	spec := DefaultRunSpec()
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("failed to read run spec: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("failed to parse run spec: %w", err)
	}
	return spec, nil
}

// Validate checks the parts of the spec the engine cannot check itself:
// objective resolution, dimension overrides and bounds shape. Engine
// parameter ranges are validated when the run starts.
func (s RunSpec) Validate() error {
	_, _, err := s.resolve()
	return err
}

// resolve produces the target function at the requested dimensionality
// together with the effective search bounds.
func (s RunSpec) resolve() (bench.Function, [][2]float64, error) {
	if s.Objective == "" {
		return bench.Function{}, nil, fmt.Errorf("run spec: objective is required")
	}
	f, ok := bench.Lookup(s.Objective)
	if !ok {
		return bench.Function{}, nil, fmt.Errorf("run spec: unknown objective %q", s.Objective)
	}

	dim := s.Dim
	if dim == 0 {
		dim = f.Dim
	}
	f, err := f.WithDim(dim)
	if err != nil {
		return bench.Function{}, nil, fmt.Errorf("run spec: %w", err)
	}

	bounds := f.SearchBounds(dim)
	switch {
	case len(s.Bounds) == 0:
	case len(s.Bounds) == 1:
		for i := range bounds {
			bounds[i] = s.Bounds[0]
		}
	case len(s.Bounds) == dim:
		copy(bounds, s.Bounds)
	default:
		return bench.Function{}, nil, fmt.Errorf("run spec: %d bound pairs for %d dimensions", len(s.Bounds), dim)
	}

	if s.InitialGuess != nil && len(s.InitialGuess) != dim {
		return bench.Function{}, nil, fmt.Errorf("run spec: initial guess has %d coordinates, want %d", len(s.InitialGuess), dim)
	}

	return f, bounds, nil
}

// engineConfig builds the engine configuration for one run with the given
// seed. The progress hook is attached by the executor.
func (s RunSpec) engineConfig(objective func([]float64) float64, bounds [][2]float64, seed int64) cuckoo.Config {
	cfg := cuckoo.NewDefaultConfig()
	cfg.ObjectiveFunc = objective
	cfg.Bounds = bounds
	cfg.NPop = s.Pop
	cfg.MaxIterations = s.MaxIterations
	cfg.Alpha = s.Alpha
	cfg.Beta = s.Beta
	cfg.PDiscovery = s.PDiscovery
	cfg.FitnessTol = s.FitnessTol
	cfg.PositionTol = s.PositionTol
	cfg.MaxSaturation = s.MaxSaturation
	cfg.Unconstrained = s.Unconstrained
	cfg.Workers = s.Workers
	cfg.InitialGuess = s.InitialGuess
	cfg.Rand = rand.New(rand.NewSource(seed))
	return cfg
}

// restarts normalizes the restart count.
func (s RunSpec) restarts() int {
	if s.Restarts < 1 {
		return 1
	}
	return s.Restarts
}
