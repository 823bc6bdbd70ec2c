package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

var (
	resumeDataDir    string
	resumeStore      string
	resumeConfigPath string
	resumeIters      int
	resumeSeed       int64
)

var resumeCmd = &cobra.Command{
	Use:   "resume [run-id]",
	Short: "Resume a checkpointed run",
	Long: `Loads the checkpoint for a run and continues the search from its best
nest. The continuation runs with a fresh random stream (checkpoint seed + 1
unless --seed is given) and a population warm-started on the checkpointed
best, so the best fitness can only improve. Totals in the saved checkpoint
accumulate across resumes.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Directory for checkpoints and traces")
	resumeCmd.Flags().StringVar(&resumeStore, "store", "fs", "Checkpoint backend: fs or sqlite")
	resumeCmd.Flags().StringVar(&resumeConfigPath, "config", "", "YAML run spec overriding engine knobs (problem fields must match the checkpoint)")
	resumeCmd.Flags().IntVar(&resumeIters, "iters", 0, "Max generations for the continuation")
	resumeCmd.Flags().Int64Var(&resumeSeed, "seed", 0, "Random seed for the continuation")

	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := store.OpenStore(resumeStore, resumeDataDir)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(st)

	cp, err := st.LoadCheckpoint(runID)
	if err != nil {
		return err
	}
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("checkpoint is not resumable: %w", err)
	}

	spec := cp.Spec
	if resumeConfigPath != "" {
		loaded, err := pipeline.LoadSpec(resumeConfigPath)
		if err != nil {
			return err
		}
		if err := cp.IsCompatible(loaded); err != nil {
			return err
		}
		spec = loaded
	}

	if cmd.Flags().Changed("iters") {
		spec.MaxIterations = resumeIters
	}
	if cmd.Flags().Changed("seed") {
		spec.Seed = resumeSeed
	} else {
		// Reusing the checkpoint seed would replay the trajectory that led
		// to the checkpoint.
		spec.Seed = cp.Spec.Seed + 1
	}

	// The continuation is a single warm-started run.
	spec.Restarts = 1
	spec.InitialGuess = cp.BestNest

	if err := spec.Validate(); err != nil {
		return err
	}

	slog.Info("Resuming run",
		"run_id", runID,
		"objective", spec.Objective,
		"best_fitness", cp.BestFitness,
		"iteration", cp.Iteration,
		"seed", spec.Seed)

	// The trace appends to the run's existing history, so plots span the
	// original run and every resume.
	trace, err := store.NewTraceWriter(resumeDataDir, runID, true)
	if err != nil {
		return err
	}
	defer trace.Close()

	sink := pipeline.SinkFunc(func(p pipeline.Progress) {
		if err := trace.Write(store.NewTraceEntry(p)); err != nil {
			slog.Warn("Failed to write trace entry", "error", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := pipeline.ExecuteRestarts(ctx, spec, sink)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if res == nil {
		return runErr
	}

	printRunResult(res)

	if err := trace.Flush(); err != nil {
		return err
	}

	// The saved checkpoint carries cumulative totals so repeated resumes
	// keep counting from the original run.
	next := store.NewCheckpoint(runID, cp.Spec,
		res.BestNest, res.BestFitness, cp.InitialFitness,
		cp.Iteration+res.Iterations, cp.Evaluations+res.Evaluations)
	next.Outcome = string(res.Outcome)
	if err := st.SaveCheckpoint(runID, next); err != nil {
		return err
	}

	fmt.Printf("Checkpoint updated: %s (best %.10g -> %.10g)\n", runID, cp.BestFitness, res.BestFitness)
	return nil
}
