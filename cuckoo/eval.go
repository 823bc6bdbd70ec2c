package cuckoo

import (
	"math"

	"github.com/sourcegraph/conc/pool"
)

// evaluator applies the objective to every population row. With more than
// one worker the rows are fanned out to a bounded goroutine pool; each
// result is written to its own index and the pool is drained before
// returning, so the parallel path is bit-identical to the serial one.
// Evaluation consumes no randomness.
type evaluator struct {
	fn      ObjectiveFunc
	workers int
}

func (e evaluator) evalAll(nests [][]float64, fitness []float64) {
	if e.workers > 1 {
		p := pool.New().WithMaxGoroutines(e.workers)
		for i := range nests {
			i := i
			p.Go(func() {
				fitness[i] = sanitize(e.fn(nests[i]))
			})
		}
		p.Wait()
		return
	}
	for i := range nests {
		fitness[i] = sanitize(e.fn(nests[i]))
	}
}

// sanitize maps non-finite objective values to +Inf so an unstable candidate
// always loses selection instead of propagating NaN through the run.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.Inf(1)
	}
	return v
}
