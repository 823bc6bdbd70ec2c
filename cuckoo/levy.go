package cuckoo

import (
	"math"
	"math/rand"
)

// mantegnaSigma computes the scale parameter of Mantegna's algorithm for a
// stability exponent beta:
//
//	sigma = [ Γ(1+β)·sin(πβ/2) / ( Γ((1+β)/2)·β·2^((β-1)/2) ) ]^(1/β)
//
// A Normal(0, sigma²) draw divided by |Normal(0,1)|^(1/β) then follows a
// symmetric Lévy-stable distribution.
func mantegnaSigma(beta float64) float64 {
	num := math.Gamma(1+beta) * math.Sin(math.Pi*beta/2)
	den := math.Gamma((1+beta)/2) * beta * math.Pow(2, (beta-1)/2)
	return math.Pow(num/den, 1/beta)
}

// levyStep writes a Lévy-flight move of every nest into dst:
//
//	dst = nests + alpha · L ⊙ (nests − best)
//
// where L is an elementwise Lévy-stable sample. Displacement toward the
// current best keeps exploration centered on the most promising region while
// the heavy tail of L preserves occasional long jumps. The best nest itself
// has zero displacement and is left in place. Draws happen in row-major
// order, so output is exactly reproducible for a given rng state.
func levyStep(dst, nests [][]float64, best []float64, alpha, beta, sigma float64, rng *rand.Rand) {
	invBeta := 1 / beta
	for i := range nests {
		for j := range nests[i] {
			u := rng.NormFloat64() * sigma
			v := rng.NormFloat64()
			l := u / math.Pow(math.Abs(v), invBeta)
			dst[i][j] = nests[i][j] + alpha*l*(nests[i][j]-best[j])
		}
	}
}
