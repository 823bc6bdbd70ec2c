package bench

import "math"

// penaltyWeight scales squared constraint violations onto the raw cost.
// Large enough that any violated design loses against every feasible one.
const penaltyWeight = 1e6

// penalized adds the quadratic penalty for every violated constraint.
// Constraints follow the g(x) <= 0 convention.
func penalized(cost float64, constraints ...float64) float64 {
	for _, g := range constraints {
		if g > 0 {
			cost += penaltyWeight * g * g
		}
	}
	return cost
}

// engineeringFunctions lists constrained design problems in penalty form.
// Their optima are only known as best published values, so OptimumKnown
// stays false and no exact comparison is offered.
func engineeringFunctions() []Function {
	return []Function{
		{
			Name: "spring", Kind: KindEngineering,
			Dim: 3,
			BoundsPerDim: [][2]float64{
				{0.05, 2},   // wire diameter
				{0.25, 1.3}, // mean coil diameter
				{2, 15},     // active coils
			},
			Objective: spring,
		},
		{
			Name: "pressurevessel", Kind: KindEngineering,
			Dim: 4,
			BoundsPerDim: [][2]float64{
				{0.0625, 6.1875}, // shell thickness
				{0.0625, 6.1875}, // head thickness
				{10, 200},        // inner radius
				{10, 200},        // shell length
			},
			Objective: pressureVessel,
		},
		{
			Name: "cantilever", Kind: KindEngineering,
			Dim: 5,
			BoundsPerDim: [][2]float64{
				{0.01, 100},
				{0.01, 100},
				{0.01, 100},
				{0.01, 100},
				{0.01, 100},
			},
			Objective: cantilever,
		},
	}
}

// spring is the tension/compression spring weight minimization with four
// mechanical constraints. Best published cost is about 0.012665 at
// (0.05169, 0.35675, 11.2871).
func spring(x []float64) float64 {
	d, dm, n := x[0], x[1], x[2]

	cost := (n + 2) * dm * d * d

	g1 := 1 - dm*dm*dm*n/(71785*d*d*d*d)
	g2 := (4*dm*dm-d*dm)/(12566*(dm*d*d*d-d*d*d*d)) + 1/(5108*d*d) - 1
	g3 := 1 - 140.45*d/(dm*dm*n)
	g4 := (dm+d)/1.5 - 1

	return penalized(cost, g1, g2, g3, g4)
}

// pressureVessel is the cylindrical vessel cost minimization over shell
// thickness, head thickness, radius and length. Best published cost is
// about 6059.71.
func pressureVessel(x []float64) float64 {
	ts, th, r, l := x[0], x[1], x[2], x[3]

	cost := 0.6224*ts*r*l + 1.7781*th*r*r + 3.1661*ts*ts*l + 19.84*ts*ts*r

	g1 := -ts + 0.0193*r
	g2 := -th + 0.00954*r
	g3 := -math.Pi*r*r*l - 4.0/3.0*math.Pi*r*r*r + 1296000
	g4 := l - 240

	return penalized(cost, g1, g2, g3, g4)
}

// cantilever is the stepped cantilever beam weight minimization with a
// single stiffness constraint. Best published cost is about 1.33996.
func cantilever(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	cost := 0.0624 * sum

	g := 61/math.Pow(x[0], 3) + 37/math.Pow(x[1], 3) + 19/math.Pow(x[2], 3) +
		7/math.Pow(x[3], 3) + 1/math.Pow(x[4], 3) - 1

	return penalized(cost, g)
}
