package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// writeJSON serializes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError sends a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// runElapsed returns how long a run has been going, or took in total once
// finished.
func runElapsed(run Run) time.Duration {
	if run.EndTime != nil {
		return run.EndTime.Sub(run.StartTime)
	}
	return time.Since(run.StartTime)
}

// evalsPerSecond computes objective-evaluation throughput.
func evalsPerSecond(evaluations int, elapsed time.Duration) float64 {
	if elapsed.Seconds() <= 0 {
		return 0
	}
	return float64(evaluations) / elapsed.Seconds()
}
