package store

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
)

// Checkpoint represents a saved search state that can be resumed later.
// All fields are serialized to JSON for persistence.
//
// The checkpoint saves the BEST NEST found so far, but not the engine's
// internal population. Resuming restarts the search with a fresh population
// warm-started by pinning the checkpointed best as the initial guess, so
// the best fitness can never get worse across a resume, but the trajectory
// after the resume differs from an uninterrupted run.
type Checkpoint struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"runId"`

	// Spec is the full run specification, needed to rebuild the search on
	// resume and to check compatibility with overrides.
	Spec pipeline.RunSpec `json:"spec"`

	// BestNest is the best position found so far.
	BestNest []float64 `json:"bestNest"`

	// BestFitness is the objective value achieved by BestNest.
	BestFitness float64 `json:"bestFitness"`

	// InitialFitness is the best fitness of the initial population,
	// recorded for improvement tracking.
	InitialFitness float64 `json:"initialFitness"`

	// Iteration is the generation count when this checkpoint was created.
	Iteration int `json:"iteration"`

	// Evaluations is the number of objective calls spent so far.
	Evaluations int `json:"evaluations"`

	// Outcome is the run outcome if the run has finished, empty while the
	// run is still in flight.
	Outcome string `json:"outcome,omitempty"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`
}

// CheckpointInfo contains metadata about a checkpoint without the full
// parameter data. Used for listing checkpoints cheaply.
type CheckpointInfo struct {
	RunID       string    `json:"runId"`
	Objective   string    `json:"objective"`
	Dim         int       `json:"dim"`
	BestFitness float64   `json:"bestFitness"`
	Iteration   int       `json:"iteration"`
	Outcome     string    `json:"outcome,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCheckpoint creates a checkpoint from live run state.
func NewCheckpoint(runID string, spec pipeline.RunSpec, bestNest []float64, bestFitness, initialFitness float64, iteration, evaluations int) *Checkpoint {
	return &Checkpoint{
		RunID:          runID,
		Spec:           spec,
		BestNest:       append([]float64(nil), bestNest...),
		BestFitness:    bestFitness,
		InitialFitness: initialFitness,
		Iteration:      iteration,
		Evaluations:    evaluations,
		Timestamp:      time.Now(),
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		RunID:       c.RunID,
		Objective:   c.Spec.Objective,
		Dim:         len(c.BestNest),
		BestFitness: c.BestFitness,
		Iteration:   c.Iteration,
		Outcome:     c.Outcome,
		Timestamp:   c.Timestamp,
	}
}

// Validate checks if the checkpoint has valid data. Fitness values must be
// finite: JSON cannot represent NaN or infinities, and a checkpoint whose
// best is unusable has nothing to resume from. Negative fitness is fine,
// several benchmark objectives have negative optima.
func (c *Checkpoint) Validate() error {
	if c.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(c.BestNest) == 0 {
		return &ValidationError{Field: "BestNest", Reason: "cannot be empty"}
	}
	if c.Spec.Objective == "" {
		return &ValidationError{Field: "Spec.Objective", Reason: "cannot be empty"}
	}
	if c.Spec.Dim != 0 && len(c.BestNest) != c.Spec.Dim {
		return &ValidationError{
			Field:  "BestNest",
			Reason: fmt.Sprintf("has %d coordinates for a %d-dimensional spec", len(c.BestNest), c.Spec.Dim),
		}
	}
	if math.IsNaN(c.BestFitness) || math.IsInf(c.BestFitness, 0) {
		return &ValidationError{Field: "BestFitness", Reason: "must be finite"}
	}
	if math.IsNaN(c.InitialFitness) || math.IsInf(c.InitialFitness, 0) {
		return &ValidationError{Field: "InitialFitness", Reason: "must be finite"}
	}
	for i, v := range c.BestNest {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Field: "BestNest", Reason: fmt.Sprintf("coordinate %d is not finite", i)}
		}
	}
	if c.Iteration < 0 {
		return &ValidationError{Field: "Iteration", Reason: "cannot be negative"}
	}
	if c.Evaluations < 0 {
		return &ValidationError{Field: "Evaluations", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed under the given
// spec. Only the fields that define the search problem must match; engine
// knobs like population size or budget may be overridden freely.
func (c *Checkpoint) IsCompatible(spec pipeline.RunSpec) error {
	if !strings.EqualFold(c.Spec.Objective, spec.Objective) {
		return &CompatibilityError{
			Field:    "Objective",
			Expected: c.Spec.Objective,
			Actual:   spec.Objective,
		}
	}
	if c.Spec.Dim != spec.Dim {
		return &CompatibilityError{
			Field:    "Dim",
			Expected: fmt.Sprintf("%d", c.Spec.Dim),
			Actual:   fmt.Sprintf("%d", spec.Dim),
		}
	}
	if len(c.Spec.Bounds) != len(spec.Bounds) {
		return &CompatibilityError{
			Field:    "Bounds",
			Expected: fmt.Sprintf("%d pairs", len(c.Spec.Bounds)),
			Actual:   fmt.Sprintf("%d pairs", len(spec.Bounds)),
		}
	}
	for i := range c.Spec.Bounds {
		if c.Spec.Bounds[i] != spec.Bounds[i] {
			return &CompatibilityError{
				Field:    "Bounds",
				Expected: fmt.Sprintf("%v", c.Spec.Bounds[i]),
				Actual:   fmt.Sprintf("%v", spec.Bounds[i]),
			}
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
