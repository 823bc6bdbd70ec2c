package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cwbudde/cuckoosearch/internal/plot"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

// handleRunPlot handles GET /api/v1/runs/{id}/plot, rendering the run's
// trace as a self-contained HTML convergence chart.
func (s *Server) handleRunPlot(w http.ResponseWriter, r *http.Request, runID string) {
	run, exists := s.runManager.GetRun(runID)
	if !exists {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	if s.dataDir == "" {
		writeError(w, http.StatusNotFound, "Server runs without trace storage")
		return
	}

	reader, err := store.NewTraceReader(s.dataDir, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No trace recorded for this run")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to open trace: %v", err))
		return
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read trace: %v", err))
		return
	}

	title := fmt.Sprintf("%s (%s)", run.Spec.Objective, runID)
	chart, err := plot.ConvergenceChart(title, entries)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Cannot plot run: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := chart.Render(w); err != nil {
		slog.Error("Failed to render plot", "run_id", runID, "error", err)
	}
}
