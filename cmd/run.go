package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/bench"
	"github.com/cwbudde/cuckoosearch/internal/pipeline"
	"github.com/cwbudde/cuckoosearch/internal/plot"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

var (
	runObjective     string
	runDim           int
	runBounds        string
	runPop           int
	runIters         int
	runAlpha         float64
	runBeta          float64
	runPD            float64
	runFtol          float64
	runPtol          float64
	runSaturation    int
	runSeed          int64
	runWorkers       int
	runRestarts      int
	runUnconstrained bool
	runConfigPath    string
	runTracePath     string
	runPlotPath      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long: `Runs the cuckoo search against a registered objective and prints the best
nest found. Parameters come from the engine defaults, overridden by a YAML
run spec (--config), overridden by explicit flags.`,
	RunE: runSearch,
}

func init() {
	runCmd.Flags().StringVar(&runObjective, "objective", "", "Objective name from the benchmark registry")
	runCmd.Flags().IntVar(&runDim, "dim", 0, "Dimensionality override for scalable objectives")
	runCmd.Flags().StringVar(&runBounds, "bounds", "", "Search bounds as lo:hi,lo:hi,... (a single pair is broadcast)")
	runCmd.Flags().IntVar(&runPop, "pop", 25, "Population size (number of nests)")
	runCmd.Flags().IntVar(&runIters, "iters", 10000, "Max generations")
	runCmd.Flags().Float64Var(&runAlpha, "alpha", 1.0, "Lévy step scale")
	runCmd.Flags().Float64Var(&runBeta, "beta", 1.5, "Lévy stability exponent in (1, 2]")
	runCmd.Flags().Float64Var(&runPD, "pd", 0.25, "Discovery probability in [0, 1]")
	runCmd.Flags().Float64Var(&runFtol, "ftol", 1e-10, "Fitness improvement tolerance")
	runCmd.Flags().Float64Var(&runPtol, "ptol", 1e-8, "Population collapse tolerance")
	runCmd.Flags().IntVar(&runSaturation, "saturation", 50, "Stagnant generations before convergence")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "Random seed")
	runCmd.Flags().IntVar(&runWorkers, "workers", 1, "Goroutines for objective evaluation")
	runCmd.Flags().IntVar(&runRestarts, "restarts", 1, "Independent restarts; the best result wins")
	runCmd.Flags().BoolVar(&runUnconstrained, "unconstrained", false, "Skip boundary clamping after moves")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "YAML run spec (explicit flags still win)")
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "Write per-generation trace to this JSONL file")
	runCmd.Flags().StringVar(&runPlotPath, "plot", "", "Write a convergence chart to this HTML file")

	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	spec := pipeline.DefaultRunSpec()
	if runConfigPath != "" {
		loaded, err := pipeline.LoadSpec(runConfigPath)
		if err != nil {
			return err
		}
		spec = loaded
	}
	if err := applyRunFlags(cmd, &spec); err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	var sinks []pipeline.Sink

	var trace *store.TraceWriter
	if runTracePath != "" {
		var err error
		trace, err = store.CreateTrace(runTracePath, false)
		if err != nil {
			return err
		}
		defer trace.Close()
		sinks = append(sinks, pipeline.SinkFunc(func(p pipeline.Progress) {
			if err := trace.Write(store.NewTraceEntry(p)); err != nil {
				slog.Warn("Failed to write trace entry", "error", err)
			}
		}))
	}

	// The chart is fed from an in-memory trace so --plot works without --trace.
	var entries []store.TraceEntry
	if runPlotPath != "" {
		sinks = append(sinks, pipeline.SinkFunc(func(p pipeline.Progress) {
			entries = append(entries, store.NewTraceEntry(p))
		}))
	}

	// An interrupt stops the search at the next generation boundary; the
	// best nest found so far is still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.ExecuteRestarts(ctx, spec, pipeline.MultiSink(sinks...))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if res == nil {
		return err
	}

	printRunResult(res)

	if trace != nil {
		if err := trace.Flush(); err != nil {
			return err
		}
		fmt.Printf("Trace written to %s\n", trace.Path())
	}
	if runPlotPath != "" {
		title := fmt.Sprintf("%s convergence", res.Spec.Objective)
		chart, err := plot.ConvergenceChart(title, entries)
		if err != nil {
			return err
		}
		if err := plot.WriteHTML(chart, runPlotPath); err != nil {
			return err
		}
		fmt.Printf("Plot written to %s\n", runPlotPath)
	}

	return nil
}

// applyRunFlags layers explicitly set flags over the spec, so flag defaults
// never stomp values loaded from a YAML file.
func applyRunFlags(cmd *cobra.Command, spec *pipeline.RunSpec) error {
	flags := cmd.Flags()
	if flags.Changed("objective") {
		spec.Objective = runObjective
	}
	if flags.Changed("dim") {
		spec.Dim = runDim
	}
	if flags.Changed("bounds") {
		bounds, err := parseBounds(runBounds)
		if err != nil {
			return err
		}
		spec.Bounds = bounds
	}
	if flags.Changed("pop") {
		spec.Pop = runPop
	}
	if flags.Changed("iters") {
		spec.MaxIterations = runIters
	}
	if flags.Changed("alpha") {
		spec.Alpha = runAlpha
	}
	if flags.Changed("beta") {
		spec.Beta = runBeta
	}
	if flags.Changed("pd") {
		spec.PDiscovery = runPD
	}
	if flags.Changed("ftol") {
		spec.FitnessTol = runFtol
	}
	if flags.Changed("ptol") {
		spec.PositionTol = runPtol
	}
	if flags.Changed("saturation") {
		spec.MaxSaturation = runSaturation
	}
	if flags.Changed("seed") {
		spec.Seed = runSeed
	}
	if flags.Changed("workers") {
		spec.Workers = runWorkers
	}
	if flags.Changed("restarts") {
		spec.Restarts = runRestarts
	}
	if flags.Changed("unconstrained") {
		spec.Unconstrained = runUnconstrained
	}
	return nil
}

// parseBounds turns "lo:hi,lo:hi,..." into bound pairs.
func parseBounds(s string) ([][2]float64, error) {
	parts := strings.Split(s, ",")
	bounds := make([][2]float64, 0, len(parts))
	for _, part := range parts {
		lohi := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(lohi) != 2 {
			return nil, fmt.Errorf("bound %q is not of the form lo:hi", part)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(lohi[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lower bound in %q: %w", part, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(lohi[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid upper bound in %q: %w", part, err)
		}
		bounds = append(bounds, [2]float64{lo, hi})
	}
	return bounds, nil
}

func printRunResult(res *pipeline.RunResult) {
	dim := len(res.BestNest)
	eps := float64(res.Evaluations) / res.Elapsed.Seconds()

	fmt.Printf("Objective:     %s (%dD)\n", res.Spec.Objective, dim)
	fmt.Printf("Best nest:     %s\n", formatVector(res.BestNest))
	fmt.Printf("Best fitness:  %.10g (from %.10g)\n", res.BestFitness, res.InitialFitness)
	fmt.Printf("Outcome:       %s\n", res.Outcome)
	fmt.Printf("Generations:   %s", humanize.Comma(int64(res.Iterations)))
	if res.RestartsRun > 1 {
		fmt.Printf(" (winning restart of %d)", res.RestartsRun)
	}
	fmt.Println()
	fmt.Printf("Evaluations:   %s (%.0f/sec)\n", humanize.Comma(int64(res.Evaluations)), eps)
	fmt.Printf("Elapsed:       %s\n", res.Elapsed.Round(time.Millisecond))

	// Report the gap to the known optimum where the registry has one.
	if f, ok := bench.Lookup(res.Spec.Objective); ok && f.OptimumKnown {
		fmt.Printf("Known optimum: %.10g", f.Optimum)
		if at, err := f.WithDim(dim); err == nil && len(at.OptimumAt) == dim {
			fmt.Printf(" at %s", formatVector(at.OptimumAt))
		}
		fmt.Printf(" (gap %.3g)\n", res.BestFitness-f.Optimum)
	}
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 8, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
