package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
)

// RunState represents the current state of a run
type RunState string

const (
	StatePending   RunState = "pending"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
	StateCancelled RunState = "cancelled"
)

// Run represents one optimization run
type Run struct {
	ID             string           `json:"id"`
	State          RunState         `json:"state"`
	Spec           pipeline.RunSpec `json:"spec"`
	BestNest       []float64        `json:"bestNest,omitempty"`
	BestFitness    float64          `json:"bestFitness"`
	InitialFitness float64          `json:"initialFitness"`
	Restart        int              `json:"restart"`
	Iterations     int              `json:"iterations"`
	Evaluations    int              `json:"evaluations"`
	Outcome        string           `json:"outcome,omitempty"`
	StartTime      time.Time        `json:"startTime"`
	EndTime        *time.Time       `json:"endTime,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// RunManager manages the lifecycle of runs. Reads hand out snapshots, so
// update functions must replace the BestNest slice rather than mutate it.
type RunManager struct {
	mu          sync.RWMutex
	runs        map[string]*Run
	cancels     map[string]context.CancelFunc
	broadcaster *EventBroadcaster
}

// NewRunManager creates a new RunManager
func NewRunManager() *RunManager {
	return &RunManager{
		runs:        make(map[string]*Run),
		cancels:     make(map[string]context.CancelFunc),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateRun registers a new run with the given spec
func (rm *RunManager) CreateRun(spec pipeline.RunSpec) Run {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	run := &Run{
		ID:        uuid.New().String(),
		State:     StatePending,
		Spec:      spec,
		StartTime: time.Now(),
	}

	rm.runs[run.ID] = run
	return *run
}

// GetRun retrieves a snapshot of a run by ID
func (rm *RunManager) GetRun(id string) (Run, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	run, exists := rm.runs[id]
	if !exists {
		return Run{}, false
	}
	return *run, true
}

// ListRuns returns snapshots of all runs
func (rm *RunManager) ListRuns() []Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	runs := make([]Run, 0, len(rm.runs))
	for _, run := range rm.runs {
		runs = append(runs, *run)
	}
	return runs
}

// UpdateRun atomically updates a run using the provided function
func (rm *RunManager) UpdateRun(id string, updateFn func(*Run)) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	run, exists := rm.runs[id]
	if !exists {
		return fmt.Errorf("run not found: %s", id)
	}

	updateFn(run)
	return nil
}

// SetCancel registers the cancel function for a running run
func (rm *RunManager) SetCancel(id string, cancel context.CancelFunc) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.cancels[id] = cancel
}

// ClearCancel removes the cancel function once a run has finished
func (rm *RunManager) ClearCancel(id string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.cancels, id)
}

// Cancel requests cancellation of a running run. It reports whether a
// cancellable run was found.
func (rm *RunManager) Cancel(id string) bool {
	rm.mu.Lock()
	cancel, exists := rm.cancels[id]
	delete(rm.cancels, id)
	rm.mu.Unlock()

	if exists {
		cancel()
	}
	return exists
}

// CancelAll cancels every run that is still cancellable. Used during
// shutdown so workers unwind promptly.
func (rm *RunManager) CancelAll() {
	rm.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(rm.cancels))
	for id, cancel := range rm.cancels {
		cancels = append(cancels, cancel)
		delete(rm.cancels, id)
	}
	rm.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// RunningRuns returns snapshots of all runs currently in the running state
func (rm *RunManager) RunningRuns() []Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	running := make([]Run, 0)
	for _, run := range rm.runs {
		if run.State == StateRunning {
			running = append(running, *run)
		}
	}
	return running
}
