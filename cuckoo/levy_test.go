package cuckoo

import (
	"math"
	"math/rand"
	"testing"
)

func TestMantegnaSigma(t *testing.T) {
	// Known value for the conventional exponent.
	if got := mantegnaSigma(1.5); math.Abs(got-0.6966) > 1e-3 {
		t.Errorf("mantegnaSigma(1.5) = %v, want about 0.6966", got)
	}
	// Beta = 2 degrades to a Gaussian walk; sigma must stay finite and positive.
	if got := mantegnaSigma(2.0); got <= 0 || math.IsNaN(got) {
		t.Errorf("mantegnaSigma(2.0) = %v, want positive", got)
	}
}

func TestLevyStepDeterministic(t *testing.T) {
	bounds := uniformBounds(3, -5, 5)
	nests := initPopulation(rand.New(rand.NewSource(1)), bounds, 6)
	best := nests[2]
	sigma := mantegnaSigma(1.5)

	first := newMatrix(6, 3)
	levyStep(first, nests, best, 1.0, 1.5, sigma, rand.New(rand.NewSource(9)))

	second := newMatrix(6, 3)
	levyStep(second, nests, best, 1.0, 1.5, sigma, rand.New(rand.NewSource(9)))

	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("Entry (%d,%d) differs: %g vs %g", i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestLevyStepBestNestStaysPut(t *testing.T) {
	bounds := uniformBounds(2, -5, 5)
	nests := initPopulation(rand.New(rand.NewSource(2)), bounds, 4)
	best := append([]float64(nil), nests[1]...)

	dst := newMatrix(4, 2)
	levyStep(dst, nests, best, 1.0, 1.5, mantegnaSigma(1.5), rand.New(rand.NewSource(3)))

	// Zero displacement toward itself: the best row's candidate is itself.
	for j := range best {
		if dst[1][j] != nests[1][j] {
			t.Errorf("Best nest moved in dimension %d: %g -> %g", j, nests[1][j], dst[1][j])
		}
	}
}

func TestLevyStepInputsUntouched(t *testing.T) {
	bounds := uniformBounds(2, -1, 1)
	nests := initPopulation(rand.New(rand.NewSource(4)), bounds, 3)
	snapshot := make([][]float64, len(nests))
	for i := range nests {
		snapshot[i] = append([]float64(nil), nests[i]...)
	}
	best := append([]float64(nil), nests[0]...)

	dst := newMatrix(3, 2)
	levyStep(dst, nests, best, 0.5, 1.5, mantegnaSigma(1.5), rand.New(rand.NewSource(5)))

	for i := range nests {
		for j := range nests[i] {
			if nests[i][j] != snapshot[i][j] {
				t.Fatalf("Source population mutated at (%d,%d)", i, j)
			}
		}
	}
}
