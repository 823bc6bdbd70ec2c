package cuckoo

import (
	"math"
	"math/rand"
)

// normalizeBounds returns a copy of bounds with each (lower, upper) pair
// sorted so the lower value comes first. Equal pairs are valid and pin that
// dimension to a single value.
func normalizeBounds(bounds [][2]float64) [][2]float64 {
	out := make([][2]float64, len(bounds))
	for i, b := range bounds {
		if b[0] > b[1] {
			b[0], b[1] = b[1], b[0]
		}
		out[i] = b
	}
	return out
}

// newMatrix allocates an n×dim matrix backed by a single slice.
func newMatrix(n, dim int) [][]float64 {
	backing := make([]float64, n*dim)
	m := make([][]float64, n)
	for i := range m {
		m[i] = backing[i*dim : (i+1)*dim]
	}
	return m
}

// initPopulation samples n nests uniformly at random within bounds.
func initPopulation(rng *rand.Rand, bounds [][2]float64, n int) [][]float64 {
	nests := newMatrix(n, len(bounds))
	for i := range nests {
		for j, b := range bounds {
			nests[i][j] = b[0] + rng.Float64()*(b[1]-b[0])
		}
	}
	return nests
}

// project clamps every entry of nests into its per-dimension box. Clamping,
// not reflection: values below the lower bound land exactly on it, values
// above the upper bound likewise. Entries already in bounds are untouched,
// so projecting an in-bounds matrix is the identity.
func project(nests [][]float64, bounds [][2]float64) {
	for i := range nests {
		for j, b := range bounds {
			nests[i][j] = clamp(nests[i][j], b[0], b[1])
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
