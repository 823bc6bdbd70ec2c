package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/bench"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "List registered benchmark objectives",
	Long:  `Lists every objective in the benchmark registry with its default dimensionality, search domain and known optimum.`,
	RunE:  runBenchmarks,
}

func init() {
	rootCmd.AddCommand(benchmarksCmd)
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDIM\tDOMAIN\tOPTIMUM")

	for _, name := range bench.Names() {
		f, _ := bench.Lookup(name)

		dim := fmt.Sprintf("%d", f.Dim)
		if f.Scalable {
			dim += " (scalable)"
		}

		domain := fmt.Sprintf("[%g, %g]", f.Bounds[0], f.Bounds[1])
		if f.BoundsPerDim != nil {
			domain = "per coordinate"
		}

		optimum := "n/a"
		if f.OptimumKnown {
			optimum = fmt.Sprintf("%g", f.Optimum)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.Kind, dim, domain, optimum)
	}

	return w.Flush()
}
