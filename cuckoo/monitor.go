package cuckoo

import "math"

// monitor decides when a run has converged. Two independent signals are
// checked each generation: historical saturation (too many consecutive
// generations without a best-fitness improvement above fitnessTol) and
// population collapse (both the fitness spread and the position spread
// around the best nest fall below positionTol). The hard iteration ceiling
// is enforced by the driver, not here.
type monitor struct {
	fitnessTol    float64
	positionTol   float64
	maxSaturation int

	lastBest   float64
	saturation int
}

func newMonitor(cfg Config) *monitor {
	return &monitor{
		fitnessTol:    cfg.FitnessTol,
		positionTol:   cfg.PositionTol,
		maxSaturation: cfg.MaxSaturation,
		lastBest:      math.Inf(1),
	}
}

// update folds one generation into the monitor state and reports whether
// the search should stop now.
func (m *monitor) update(bestFit float64, best []float64, fitness []float64, nests [][]float64) bool {
	if math.Abs(m.lastBest-bestFit) < m.fitnessTol {
		m.saturation++
	} else {
		m.saturation = 0
	}
	m.lastBest = bestFit

	if m.saturation >= m.maxSaturation {
		return true
	}
	return fitnessSpread(fitness) < m.positionTol && positionSpread(nests, best) < m.positionTol
}

// fitnessSpread is the population standard deviation of the fitness vector.
// Infinite fitness values poison the result to NaN, and NaN compares false
// against any tolerance, so collapse is never signalled while part of the
// population sits in an unstable region.
func fitnessSpread(fitness []float64) float64 {
	n := float64(len(fitness))
	var mean float64
	for _, f := range fitness {
		mean += f
	}
	mean /= n

	var variance float64
	for _, f := range fitness {
		d := f - mean
		variance += d * d
	}
	return math.Sqrt(variance / n)
}

// positionSpread is the mean Euclidean distance of the nests from the best
// nest.
func positionSpread(nests [][]float64, best []float64) float64 {
	var total float64
	for i := range nests {
		var sq float64
		for j := range nests[i] {
			d := nests[i][j] - best[j]
			sq += d * d
		}
		total += math.Sqrt(sq)
	}
	return total / float64(len(nests))
}
