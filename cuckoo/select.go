package cuckoo

// greedySelect merges a candidate generation into the population row by row.
// A candidate replaces its nest only when its fitness is strictly lower;
// ties keep the incumbent. The merged fitness vector is therefore
// elementwise less than or equal to the old one, which is what makes the
// global best non-increasing across generations. The candidate matrix is
// not modified.
func greedySelect(nests [][]float64, fitness []float64, cand [][]float64, candFit []float64) {
	for i := range fitness {
		if candFit[i] < fitness[i] {
			copy(nests[i], cand[i])
			fitness[i] = candFit[i]
		}
	}
}

// rank returns the index of the minimum fitness value. Earlier rows win
// ties, which keeps ranking deterministic.
func rank(fitness []float64) int {
	best := 0
	for i, f := range fitness {
		if f < fitness[best] {
			best = i
		}
	}
	return best
}
