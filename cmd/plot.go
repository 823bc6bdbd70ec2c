package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/plot"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

var (
	plotOut     string
	plotTitle   string
	plotDataDir string
)

var plotCmd = &cobra.Command{
	Use:   "plot [trace-file|run-id]",
	Short: "Render a convergence chart from a run trace",
	Long: `Renders a trace as a standalone HTML convergence chart. The argument is
either a JSONL trace file or the ID of a run stored under --data-dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotOut, "out", "convergence.html", "Output HTML path")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "Chart title (defaults to the trace source)")
	plotCmd.Flags().StringVar(&plotDataDir, "data-dir", "./data", "Directory holding stored runs")

	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	source := args[0]

	var reader *store.TraceReader
	var err error
	if _, statErr := os.Stat(source); statErr == nil {
		reader, err = store.OpenTrace(source)
	} else {
		reader, err = store.NewTraceReader(plotDataDir, source)
	}
	if err != nil {
		return err
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		return err
	}

	title := plotTitle
	if title == "" {
		title = fmt.Sprintf("%s convergence", source)
	}

	chart, err := plot.ConvergenceChart(title, entries)
	if err != nil {
		return err
	}
	if err := plot.WriteHTML(chart, plotOut); err != nil {
		return err
	}

	fmt.Printf("Plot written to %s (%d trace entries)\n", plotOut, len(entries))
	return nil
}
