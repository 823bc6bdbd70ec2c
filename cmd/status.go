package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
)

var statusServerURL string

var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "Query server runs",
	Long: `Queries the server for run status.
Without a run ID it lists all runs; with one it shows that run in detail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusServerURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

// runView mirrors the server's run status payload.
type runView struct {
	ID             string           `json:"id"`
	State          string           `json:"state"`
	Spec           pipeline.RunSpec `json:"spec"`
	BestNest       []float64        `json:"bestNest"`
	BestFitness    float64          `json:"bestFitness"`
	InitialFitness float64          `json:"initialFitness"`
	Restart        int              `json:"restart"`
	Iterations     int              `json:"iterations"`
	Evaluations    int              `json:"evaluations"`
	Outcome        string           `json:"outcome"`
	StartTime      time.Time        `json:"startTime"`
	Error          string           `json:"error"`
	ElapsedSec     float64          `json:"elapsed"`
	EPS            float64          `json:"eps"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listRuns()
	}
	return showRun(args[0])
}

func listRuns() error {
	var runs []runView
	if err := getJSON(fmt.Sprintf("%s/api/v1/runs", statusServerURL), &runs); err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOBJECTIVE\tSTATE\tITER\tBEST FITNESS\tEVALUATIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.6g\t%s\n",
			run.ID,
			run.Spec.Objective,
			run.State,
			run.Iterations,
			run.BestFitness,
			humanize.Comma(int64(run.Evaluations)))
	}
	return w.Flush()
}

func showRun(runID string) error {
	var run runView
	url := fmt.Sprintf("%s/api/v1/runs/%s/status", statusServerURL, runID)
	if err := getJSON(url, &run); err != nil {
		return err
	}

	fmt.Printf("Run:         %s\n", run.ID)
	fmt.Printf("State:       %s\n", run.State)
	fmt.Println()

	fmt.Println("Specification:")
	fmt.Printf("  Objective:  %s\n", run.Spec.Objective)
	if run.Spec.Dim > 0 {
		fmt.Printf("  Dim:        %d\n", run.Spec.Dim)
	}
	fmt.Printf("  Population: %d\n", run.Spec.Pop)
	fmt.Printf("  Iterations: %d\n", run.Spec.MaxIterations)
	fmt.Printf("  Seed:       %d\n", run.Spec.Seed)
	if run.Spec.Restarts > 1 {
		fmt.Printf("  Restarts:   %d\n", run.Spec.Restarts)
	}
	fmt.Println()

	fmt.Println("Progress:")
	if run.Spec.Restarts > 1 {
		fmt.Printf("  Restart:      %d\n", run.Restart)
	}
	fmt.Printf("  Generation:   %s\n", humanize.Comma(int64(run.Iterations)))
	fmt.Printf("  Evaluations:  %s\n", humanize.Comma(int64(run.Evaluations)))
	if len(run.BestNest) > 0 {
		fmt.Printf("  Best nest:    %s\n", formatVector(run.BestNest))
		fmt.Printf("  Best fitness: %.10g (from %.10g)\n", run.BestFitness, run.InitialFitness)
	}
	if run.Outcome != "" {
		fmt.Printf("  Outcome:      %s\n", run.Outcome)
	}

	elapsed := time.Duration(run.ElapsedSec * float64(time.Second))
	fmt.Printf("  Elapsed:      %s\n", elapsed.Round(time.Millisecond))
	if run.EPS > 0 {
		fmt.Printf("  Throughput:   %.0f evals/sec\n", run.EPS)
	}

	if run.Error != "" {
		fmt.Printf("\nError: %s\n", run.Error)
	}

	return nil
}

// getJSON fetches a URL and decodes the JSON body into out.
func getJSON(url string, out interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found: %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
