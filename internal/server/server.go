package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

// Server exposes the run manager over HTTP. Checkpoints go to the given
// store and traces to dataDir; both may be empty for a purely in-memory
// server.
type Server struct {
	runManager      *RunManager
	checkpointStore store.Store
	dataDir         string
	addr            string
	server          *http.Server
}

// NewServer creates a new HTTP server
func NewServer(addr, dataDir string, checkpointStore store.Store) *Server {
	return &Server{
		runManager:      NewRunManager(),
		checkpointStore: checkpointStore,
		dataDir:         dataDir,
		addr:            addr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunsWithID)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Shutdown gracefully shuts down the server, cancelling in-flight runs so
// their workers unwind at the next generation boundary.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	s.runManager.CancelAll()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleRuns handles /api/v1/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleRunsWithID handles /api/v1/runs/{id} and its subresources
func (s *Server) handleRunsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Run ID required")
		return
	}

	runID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.handleCancelRun(w, r, runID)
	case len(parts) == 1 || parts[1] == "status":
		s.handleGetRunStatus(w, r, runID)
	case parts[1] == "stream":
		s.handleRunStream(w, r, runID)
	case parts[1] == "plot":
		s.handleRunPlot(w, r, runID)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// handleCreateRun handles POST /api/v1/runs. The request body is a partial
// run spec layered over the defaults, mirroring how YAML spec files load.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	spec := pipeline.DefaultRunSpec()
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}

	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run := s.runManager.CreateRun(spec)

	// Start worker in background
	go executeRun(context.Background(), s.runManager, s.checkpointStore, s.dataDir, run.ID)

	writeJSON(w, http.StatusCreated, run)
}

// handleListRuns handles GET /api/v1/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runManager.ListRuns())
}

// runStatus is a run snapshot with derived timing fields.
type runStatus struct {
	Run
	ElapsedSec float64 `json:"elapsed"`
	EPS        float64 `json:"eps"`
}

// handleGetRunStatus handles GET /api/v1/runs/{id}
func (s *Server) handleGetRunStatus(w http.ResponseWriter, r *http.Request, runID string) {
	run, exists := s.runManager.GetRun(runID)
	if !exists {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	elapsed := runElapsed(run)
	writeJSON(w, http.StatusOK, runStatus{
		Run:        run,
		ElapsedSec: elapsed.Seconds(),
		EPS:        evalsPerSecond(run.Evaluations, elapsed),
	})
}

// handleCancelRun handles DELETE /api/v1/runs/{id}
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, exists := s.runManager.GetRun(runID)
	if !exists {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	if !s.runManager.Cancel(runID) {
		writeError(w, http.StatusConflict, fmt.Sprintf("Run is not cancellable (state %s)", run.State))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": runID, "status": "cancelling"})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
