package opt

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/cuckoosearch/cuckoo"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func uniformBounds(dim int, lo, hi float64) [][2]float64 {
	bounds := make([][2]float64, dim)
	for i := range bounds {
		bounds[i] = [2]float64{lo, hi}
	}
	return bounds
}

func TestCuckooAdapterOnSphere(t *testing.T) {
	optimizer := NewCuckoo(2000, 25, 42) // maxIters, popSize, seed

	dim := 3
	report, err := optimizer.Run(context.Background(), sphere, uniformBounds(dim, -10, 10))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Position) != dim {
		t.Fatalf("Expected %d parameters, got %d", dim, len(report.Position))
	}

	// Should converge close to zero
	if report.Cost > 0.1 {
		t.Errorf("Expected cost near 0, got %f", report.Cost)
	}

	// Check that best params are near origin
	for i, v := range report.Position {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}

	if report.Evaluations <= 0 || report.Iterations <= 0 {
		t.Errorf("Empty run statistics: %+v", report)
	}
}

func TestCuckooAdapterDeterministic(t *testing.T) {
	bounds := uniformBounds(2, -5, 5)

	// Run twice with same seed
	r1, err := NewCuckoo(500, 25, 123).Run(context.Background(), sphere, bounds)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	r2, err := NewCuckoo(500, 25, 123).Run(context.Background(), sphere, bounds)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if r1.Cost != r2.Cost {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", r1.Cost, r2.Cost)
	}
}

func TestCuckooAdapterReusable(t *testing.T) {
	// The same adapter value yields identical runs because each Run seeds
	// its own generator.
	optimizer := NewCuckoo(200, 25, 7)
	bounds := uniformBounds(2, -5, 5)

	r1, err := optimizer.Run(context.Background(), sphere, bounds)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	r2, err := optimizer.Run(context.Background(), sphere, bounds)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if r1.Cost != r2.Cost {
		t.Errorf("Adapter not reusable: cost1=%f, cost2=%f", r1.Cost, r2.Cost)
	}
}

func TestCuckooAdapterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewCuckoo(10000, 25, 1).Run(ctx, sphere, uniformBounds(2, -5, 5))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// The initial population is evaluated before the first context check,
	// so even an immediately cancelled run reports a partial result.
	if report == nil {
		t.Fatal("Expected a partial report alongside the cancellation error")
	}
	if report.Outcome != "cancelled" {
		t.Errorf("Expected outcome cancelled, got %q", report.Outcome)
	}
	if len(report.Position) != 2 {
		t.Errorf("Partial report should carry the best nest, got %v", report.Position)
	}
}

func TestCuckooFromConfig(t *testing.T) {
	cfg := cuckoo.NewDefaultConfig()
	cfg.NPop = 10
	cfg.MaxIterations = 5
	cfg.FitnessTol = 0
	cfg.PositionTol = 0

	report, err := NewCuckooFromConfig(cfg, 99).Run(context.Background(), sphere, uniformBounds(2, -5, 5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Tolerances are disabled, so the run must hit the iteration ceiling.
	if report.Converged {
		t.Error("Run should not report convergence with tolerances disabled")
	}
	if report.Outcome != "budget-exhausted" {
		t.Errorf("Expected outcome budget-exhausted, got %q", report.Outcome)
	}
	if report.Iterations != 5 {
		t.Errorf("Expected 5 iterations, got %d", report.Iterations)
	}
	// Initial population plus two evaluation sweeps per generation.
	wantEvals := 10 + 2*10*4
	if report.Evaluations != wantEvals {
		t.Errorf("Expected %d evaluations, got %d", wantEvals, report.Evaluations)
	}
}
