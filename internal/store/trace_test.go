package store

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/cuckoosearch/internal/pipeline"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-123"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	entries := []TraceEntry{
		{Iteration: 1, BestFitness: 120.0, MeanFitness: 480.5, Evaluations: 25, Timestamp: time.Now()},
		{Iteration: 10, BestFitness: 8.75, MeanFitness: 96.2, Evaluations: 475, Timestamp: time.Now()},
		{Iteration: 20, BestFitness: 0.61, MeanFitness: 14.8, Evaluations: 975, Timestamp: time.Now()},
		{Restart: 1, Iteration: 1, BestFitness: 240.0, MeanFitness: 512.0, Evaluations: 1000, Timestamp: time.Now()},
	}

	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Verify file exists
	tracePath := filepath.Join(tmpDir, "runs", runID, "trace.jsonl")
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatalf("Trace file not created: %s", tracePath)
	}

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	if len(readEntries) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(readEntries))
	}

	for i, entry := range readEntries {
		if entry.Restart != entries[i].Restart {
			t.Errorf("Entry %d: expected restart %d, got %d", i, entries[i].Restart, entry.Restart)
		}
		if entry.Iteration != entries[i].Iteration {
			t.Errorf("Entry %d: expected iteration %d, got %d", i, entries[i].Iteration, entry.Iteration)
		}
		if entry.BestFitness != entries[i].BestFitness {
			t.Errorf("Entry %d: expected best fitness %f, got %f", i, entries[i].BestFitness, entry.BestFitness)
		}
		if entry.MeanFitness != entries[i].MeanFitness {
			t.Errorf("Entry %d: expected mean fitness %f, got %f", i, entries[i].MeanFitness, entry.MeanFitness)
		}
		if entry.Evaluations != entries[i].Evaluations {
			t.Errorf("Entry %d: expected evaluations %d, got %d", i, entries[i].Evaluations, entry.Evaluations)
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-append"

	// Write initial entries
	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	if err := writer.Write(TraceEntry{Iteration: 1, BestFitness: 1.0, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// A resumed run reopens the trace in append mode
	writer, err = NewTraceWriter(tmpDir, runID, true)
	if err != nil {
		t.Fatalf("Failed to create trace writer in append mode: %v", err)
	}

	if err := writer.Write(TraceEntry{Iteration: 10, BestFitness: 0.8, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Iteration != 1 {
		t.Errorf("First entry: expected iteration 1, got %d", entries[0].Iteration)
	}
	if entries[1].Iteration != 10 {
		t.Errorf("Second entry: expected iteration 10, got %d", entries[1].Iteration)
	}
}

func TestTraceWriter_Truncate(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-truncate"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Iteration: 1, BestFitness: 1.0, Timestamp: time.Now()})
	writer.Write(TraceEntry{Iteration: 2, BestFitness: 0.9, Timestamp: time.Now()})
	writer.Close()

	// Reopening without append starts the trace over
	writer, err = NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to recreate trace writer: %v", err)
	}
	writer.Write(TraceEntry{Iteration: 1, BestFitness: 5.0, Timestamp: time.Now()})
	writer.Close()

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after truncate, got %d", len(entries))
	}
	if entries[0].BestFitness != 5.0 {
		t.Errorf("Expected best fitness 5.0, got %f", entries[0].BestFitness)
	}
}

func TestTraceWriter_Flush(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-flush"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Write(TraceEntry{Iteration: 1, BestFitness: 1.0, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}

	if err := writer.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Data should be on disk now (even without closing)
	data, err := os.ReadFile(writer.Path())
	if err != nil {
		t.Fatalf("Failed to read trace file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Trace file is empty after flush")
	}
}

func TestTraceReader_ReadIteratively(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-iter"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	for i := 0; i < 5; i++ {
		entry := TraceEntry{
			Iteration:   i * 10,
			BestFitness: 1.0 - float64(i)*0.1,
			Evaluations: 25 + i*250,
			Timestamp:   time.Now(),
		}
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	writer.Close()

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		entry, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read entry: %v", err)
		}

		expectedIter := count * 10
		if entry.Iteration != expectedIter {
			t.Errorf("Entry %d: expected iteration %d, got %d", count, expectedIter, entry.Iteration)
		}

		count++
	}

	if count != 5 {
		t.Errorf("Expected to read 5 entries, got %d", count)
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := NewTraceReader(tmpDir, "nonexistent-run")
	if err == nil {
		t.Fatal("Expected error for nonexistent trace file")
	}

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestOpenTrace_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-path"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Iteration: 1, BestFitness: 3.5, Timestamp: time.Now()})
	writer.Close()

	// Open by path rather than through the store layout
	reader, err := OpenTrace(writer.Path())
	if err != nil {
		t.Fatalf("Failed to open trace by path: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 1 || entries[0].BestFitness != 3.5 {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestNewTraceEntry(t *testing.T) {
	p := pipeline.Progress{
		Restart:     2,
		Iteration:   40,
		BestFitness: 0.125,
		MeanFitness: 1.75,
		Evaluations: 2025,
	}

	entry := NewTraceEntry(p)

	if entry.Restart != 2 || entry.Iteration != 40 || entry.Evaluations != 2025 {
		t.Errorf("Counters mismatch: %+v", entry)
	}
	if entry.BestFitness != 0.125 || entry.MeanFitness != 1.75 {
		t.Errorf("Fitness mismatch: %+v", entry)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewTraceEntry_ClampsNonFinite(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"NaN", math.NaN(), math.MaxFloat64},
		{"positive infinity", math.Inf(1), math.MaxFloat64},
		{"negative infinity", math.Inf(-1), -math.MaxFloat64},
		{"finite", -959.64, -959.64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := NewTraceEntry(pipeline.Progress{BestFitness: tc.value, MeanFitness: tc.value})
			if entry.BestFitness != tc.expected {
				t.Errorf("BestFitness: expected %v, got %v", tc.expected, entry.BestFitness)
			}
			if entry.MeanFitness != tc.expected {
				t.Errorf("MeanFitness: expected %v, got %v", tc.expected, entry.MeanFitness)
			}
		})
	}
}

func TestDeleteTrace(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-delete"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Iteration: 1, BestFitness: 1.0, Timestamp: time.Now()})
	writer.Close()

	tracePath := writer.Path()
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatal("Trace file was not created")
	}

	if err := DeleteTrace(tmpDir, runID); err != nil {
		t.Fatalf("Failed to delete trace: %v", err)
	}

	if _, err := os.Stat(tracePath); !os.IsNotExist(err) {
		t.Error("Trace file still exists after delete")
	}
}

func TestDeleteTrace_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	// Deleting a trace that never existed is not an error
	if err := DeleteTrace(tmpDir, "nonexistent-run"); err != nil {
		t.Errorf("DeleteTrace should not error for nonexistent file, got: %v", err)
	}
}

func TestTraceWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-concurrent"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(iter int) {
			entry := TraceEntry{
				Iteration:   iter,
				BestFitness: float64(iter),
				Timestamp:   time.Now(),
			}
			if err := writer.Write(entry); err != nil {
				t.Errorf("Concurrent write failed: %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	writer.Flush()

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	if len(entries) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(entries))
	}
}
