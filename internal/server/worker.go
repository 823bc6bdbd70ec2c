package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

// broadcastThrottle limits how often generation progress is pushed to SSE
// clients; the first and the final event always go out.
const broadcastThrottle = 500 * time.Millisecond

// executeRun drives a managed run in the background. Progress flows from
// the engine's generation hook into the run record, the SSE broadcaster,
// the trace file and, when the spec asks for it, periodic checkpoints.
// If checkpointStore is nil, persistence is skipped entirely.
func executeRun(ctx context.Context, rm *RunManager, checkpointStore store.Store, dataDir, runID string) error {
	run, exists := rm.GetRun(runID)
	if !exists {
		return fmt.Errorf("run not found: %s", runID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	rm.SetCancel(runID, cancel)
	defer rm.ClearCancel(runID)
	defer cancel()

	if err := rm.UpdateRun(runID, func(r *Run) {
		r.State = StateRunning
		r.StartTime = time.Now()
	}); err != nil {
		return err
	}

	slog.Info("Starting run", "run_id", runID, "objective", run.Spec.Objective, "restarts", run.Spec.Restarts)

	var trace *store.TraceWriter
	if dataDir != "" {
		var err error
		trace, err = store.NewTraceWriter(dataDir, runID, false)
		if err != nil {
			// A run without a trace is still useful; plot just won't work.
			slog.Warn("Failed to create trace writer", "run_id", runID, "error", err)
		} else {
			defer trace.Close()
		}
	}

	start := time.Now()
	var lastBroadcast time.Time
	var lastCheckpoint time.Time
	checkpointEvery := time.Duration(run.Spec.CheckpointSec) * time.Second

	sink := pipeline.SinkFunc(func(p pipeline.Progress) {
		rm.UpdateRun(runID, func(r *Run) {
			r.Restart = p.Restart
			r.Iterations = p.Iteration
			r.BestNest = p.BestNest
			r.BestFitness = p.BestFitness
			r.Evaluations = p.Evaluations
			if p.Restart == 0 && p.Iteration == 1 {
				r.InitialFitness = p.BestFitness
			}
		})

		if trace != nil {
			if err := trace.Write(store.NewTraceEntry(p)); err != nil {
				slog.Warn("Failed to write trace entry", "run_id", runID, "error", err)
			}
		}

		// Generations can be sub-millisecond on cheap objectives, so the
		// stream is throttled; the first event always goes out so
		// subscribers see the run turn live.
		now := time.Now()
		if p.Restart == 0 && p.Iteration == 1 || now.Sub(lastBroadcast) >= broadcastThrottle {
			lastBroadcast = now
			rm.broadcaster.Broadcast(ProgressEvent{
				RunID:       runID,
				State:       StateRunning,
				Restart:     p.Restart,
				Iteration:   p.Iteration,
				BestFitness: p.BestFitness,
				MeanFitness: p.MeanFitness,
				Evaluations: p.Evaluations,
				EPS:         evalsPerSecond(p.Evaluations, time.Since(start)),
				Timestamp:   now,
			})
		}

		if checkpointStore != nil && checkpointEvery > 0 && now.Sub(lastCheckpoint) >= checkpointEvery {
			lastCheckpoint = now
			if err := saveRunCheckpoint(rm, checkpointStore, runID); err != nil {
				slog.Error("Failed to save checkpoint", "run_id", runID, "error", err)
			}
		}
	})

	result, err := pipeline.ExecuteRestarts(runCtx, run.Spec, sink)

	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "run_id", runID, "error", err)
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			markRunCancelled(rm, runID, result)
		} else {
			markRunFailed(rm, runID, err)
		}
		if checkpointStore != nil {
			if cerr := saveRunCheckpoint(rm, checkpointStore, runID); cerr != nil {
				slog.Warn("Failed to save final checkpoint", "run_id", runID, "error", cerr)
			}
		}
		return err
	}

	endTime := time.Now()
	rm.UpdateRun(runID, func(r *Run) {
		r.State = StateCompleted
		r.BestNest = result.BestNest
		r.BestFitness = result.BestFitness
		r.InitialFitness = result.InitialFitness
		r.Iterations = result.Iterations
		r.Evaluations = result.Evaluations
		r.Outcome = string(result.Outcome)
		r.EndTime = &endTime
	})

	if checkpointStore != nil {
		if err := saveRunCheckpoint(rm, checkpointStore, runID); err != nil {
			slog.Warn("Failed to save final checkpoint", "run_id", runID, "error", err)
		}
	}

	elapsed := endTime.Sub(start)
	slog.Info("Run completed",
		"run_id", runID,
		"elapsed", elapsed,
		"initial_fitness", result.InitialFitness,
		"best_fitness", result.BestFitness,
		"evaluations", result.Evaluations,
		"outcome", result.Outcome,
	)

	// Broadcast final completion event unconditionally
	rm.broadcaster.Broadcast(ProgressEvent{
		RunID:       runID,
		State:       StateCompleted,
		Restart:     result.RestartsRun - 1,
		Iteration:   result.Iterations,
		BestFitness: result.BestFitness,
		Evaluations: result.Evaluations,
		EPS:         evalsPerSecond(result.Evaluations, elapsed),
		Timestamp:   endTime,
	})

	return nil
}

// markRunFailed marks a run as failed with an error message
func markRunFailed(rm *RunManager, runID string, err error) {
	endTime := time.Now()
	rm.UpdateRun(runID, func(r *Run) {
		r.State = StateFailed
		r.Error = err.Error()
		r.EndTime = &endTime
	})
	rm.broadcaster.Broadcast(ProgressEvent{
		RunID:     runID,
		State:     StateFailed,
		Timestamp: endTime,
	})
	slog.Error("Run failed", "run_id", runID, "error", err)
}

// markRunCancelled marks a run as cancelled, keeping the best result found
// before the cancellation if there is one.
func markRunCancelled(rm *RunManager, runID string, partial *pipeline.RunResult) {
	endTime := time.Now()
	rm.UpdateRun(runID, func(r *Run) {
		r.State = StateCancelled
		r.EndTime = &endTime
		if partial != nil {
			r.BestNest = partial.BestNest
			r.BestFitness = partial.BestFitness
			r.Evaluations = partial.Evaluations
			r.Outcome = string(partial.Outcome)
		}
	})
	rm.broadcaster.Broadcast(ProgressEvent{
		RunID:     runID,
		State:     StateCancelled,
		Timestamp: endTime,
	})
	slog.Info("Run cancelled", "run_id", runID)
}

// saveRunCheckpoint snapshots the current run state into the checkpoint
// store. Runs that have not produced a best nest yet are skipped.
func saveRunCheckpoint(rm *RunManager, checkpointStore store.Store, runID string) error {
	run, exists := rm.GetRun(runID)
	if !exists {
		return fmt.Errorf("run not found: %s", runID)
	}

	if len(run.BestNest) == 0 {
		slog.Debug("Skipping checkpoint, no best nest yet", "run_id", runID)
		return nil
	}

	checkpoint := store.NewCheckpoint(
		runID,
		run.Spec,
		run.BestNest,
		run.BestFitness,
		run.InitialFitness,
		run.Iterations,
		run.Evaluations,
	)
	checkpoint.Outcome = run.Outcome

	if err := checkpointStore.SaveCheckpoint(runID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Debug("Checkpoint saved",
		"run_id", runID,
		"iteration", run.Iterations,
		"best_fitness", run.BestFitness,
	)
	return nil
}
