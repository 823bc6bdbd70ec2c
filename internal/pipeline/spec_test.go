package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRunSpec(t *testing.T) {
	spec := DefaultRunSpec()

	if spec.Pop != 25 {
		t.Errorf("Pop = %d, want 25", spec.Pop)
	}
	if spec.MaxIterations != 10000 {
		t.Errorf("MaxIterations = %d, want 10000", spec.MaxIterations)
	}
	if spec.Alpha != 1.0 || spec.Beta != 1.5 || spec.PDiscovery != 0.25 {
		t.Errorf("Engine knobs differ from engine defaults: %+v", spec)
	}
	if spec.Seed != 1 {
		t.Errorf("Seed = %d, want 1", spec.Seed)
	}
	if spec.Restarts != 1 {
		t.Errorf("Restarts = %d, want 1", spec.Restarts)
	}
}

func TestLoadSpecPartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	doc := "objective: sphere\ndim: 3\npop: 40\nseed: 9\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to write spec: %v", err)
	}

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec failed: %v", err)
	}

	if spec.Objective != "sphere" || spec.Dim != 3 || spec.Pop != 40 || spec.Seed != 9 {
		t.Errorf("Overridden fields wrong: %+v", spec)
	}
	// Unnamed fields keep their defaults.
	if spec.MaxIterations != 10000 || spec.Beta != 1.5 || spec.MaxSaturation != 50 {
		t.Errorf("Defaults lost on load: %+v", spec)
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadSpec accepted a missing file")
	}
}

func TestLoadSpecInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("objective: [unterminated"), 0o644); err != nil {
		t.Fatalf("Failed to write spec: %v", err)
	}
	if _, err := LoadSpec(path); err == nil {
		t.Error("LoadSpec accepted malformed YAML")
	}
}

func TestRunSpecValidate(t *testing.T) {
	base := DefaultRunSpec()

	tests := []struct {
		name    string
		mutate  func(*RunSpec)
		wantErr bool
	}{
		{"sphere default dim", func(s *RunSpec) { s.Objective = "sphere" }, false},
		{"scalable resize", func(s *RunSpec) { s.Objective = "sphere"; s.Dim = 7 }, false},
		{"broadcast bounds", func(s *RunSpec) { s.Objective = "sphere"; s.Dim = 3; s.Bounds = [][2]float64{{-2, 2}} }, false},
		{"exact bounds", func(s *RunSpec) { s.Objective = "sphere"; s.Dim = 2; s.Bounds = [][2]float64{{-2, 2}, {0, 5}} }, false},
		{"missing objective", func(s *RunSpec) {}, true},
		{"unknown objective", func(s *RunSpec) { s.Objective = "warp-field" }, true},
		{"fixed dim resized", func(s *RunSpec) { s.Objective = "beale"; s.Dim = 3 }, true},
		{"bounds count mismatch", func(s *RunSpec) { s.Objective = "sphere"; s.Dim = 3; s.Bounds = [][2]float64{{-1, 1}, {-1, 1}} }, true},
		{"guess length mismatch", func(s *RunSpec) { s.Objective = "sphere"; s.Dim = 3; s.InitialGuess = []float64{1, 2} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestResolveRegistryDefaults(t *testing.T) {
	spec := DefaultRunSpec()
	spec.Objective = "eggholder"

	f, bounds, err := spec.resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if f.Dim != 2 || len(bounds) != 2 {
		t.Errorf("Dim = %d, bounds rows = %d, want 2", f.Dim, len(bounds))
	}
	for _, b := range bounds {
		if b != [2]float64{-512, 512} {
			t.Errorf("Bounds row %v, want [-512 512]", b)
		}
	}
}

func TestResolveBroadcastBounds(t *testing.T) {
	spec := DefaultRunSpec()
	spec.Objective = "sphere"
	spec.Dim = 4
	spec.Bounds = [][2]float64{{-2, 3}}

	_, bounds, err := spec.resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(bounds) != 4 {
		t.Fatalf("Got %d rows, want 4", len(bounds))
	}
	for _, b := range bounds {
		if b != [2]float64{-2, 3} {
			t.Errorf("Bounds row %v, want [-2 3]", b)
		}
	}
}
