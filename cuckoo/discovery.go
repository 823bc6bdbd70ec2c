package cuckoo

import "math/rand"

// discover writes a perturbed copy of nests into dst, modeling a host bird
// discovering the foreign egg in a fraction of nests:
//
//	dst = nests + K ⊙ rand ⊙ (nests[π1] − nests[π2])
//
// K is a per-entry Bernoulli(pD) mask and π1, π2 are independent random row
// permutations, so a masked entry takes a uniform step along the difference
// of two other population members. The step is self-scaling: it shrinks as
// the population contracts. Unmasked entries are copied unchanged, and with
// pD = 0 the whole operation is the identity.
func discover(dst, nests [][]float64, pD float64, rng *rand.Rand) {
	n := len(nests)
	p1 := rng.Perm(n)
	p2 := rng.Perm(n)
	for i := range nests {
		for j := range nests[i] {
			step := 0.0
			if rng.Float64() < pD {
				step = rng.Float64() * (nests[p1[i]][j] - nests[p2[i]][j])
			}
			dst[i][j] = nests[i][j] + step
		}
	}
}
