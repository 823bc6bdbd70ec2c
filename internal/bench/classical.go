package bench

import "math"

// classicalFunctions lists the standard unconstrained test functions. The
// scalable ones are registered at two dimensions by default and expand via
// WithDim; the rest are inherently two-dimensional.
func classicalFunctions() []Function {
	return []Function{
		{
			Name: "sphere", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-100, 100},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{0, 0},
			Objective: sphere,
		},
		{
			Name: "rosenbrock", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-30, 30},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{1, 1},
			Objective: rosenbrock,
		},
		{
			Name: "rastrigin", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-5.12, 5.12},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{0, 0},
			Objective: rastrigin,
		},
		{
			Name: "ackley", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-32.768, 32.768},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{0, 0},
			Objective: ackley,
		},
		{
			Name: "griewank", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-600, 600},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{0, 0},
			Objective: griewank,
		},
		{
			Name: "schwefel", Kind: KindClassical,
			Dim: 2, Scalable: true,
			Bounds:  [2]float64{-500, 500},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{420.968746, 420.968746},
			Objective: schwefel,
		},
		{
			Name: "beale", Kind: KindClassical,
			Dim: 2, Scalable: false,
			Bounds:  [2]float64{-4.5, 4.5},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{3, 0.5},
			Objective: beale,
		},
		{
			Name: "booth", Kind: KindClassical,
			Dim: 2, Scalable: false,
			Bounds:  [2]float64{-10, 10},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{1, 3},
			Objective: booth,
		},
		{
			Name: "himmelblau", Kind: KindClassical,
			Dim: 2, Scalable: false,
			Bounds:  [2]float64{-5, 5},
			Optimum: 0, OptimumKnown: true, OptimumAt: []float64{3, 2},
			Objective: himmelblau,
		},
		{
			Name: "bird", Kind: KindClassical,
			Dim: 2, Scalable: false,
			Bounds:  [2]float64{-2 * math.Pi, 2 * math.Pi},
			Optimum: -106.764537, OptimumKnown: true, OptimumAt: []float64{4.70104, 3.15294},
			Objective: bird,
		},
		{
			Name: "eggholder", Kind: KindClassical,
			Dim: 2, Scalable: false,
			Bounds:  [2]float64{-512, 512},
			Optimum: -959.6407, OptimumKnown: true, OptimumAt: []float64{512, 404.2319},
			Objective: eggholder,
		},
	}
}

// sphere is the sum of squares, minimal at the origin.
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// rosenbrock is the chained banana valley, minimal at (1, ..., 1).
func rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

// rastrigin is highly multimodal with a regular grid of local minima,
// minimal at the origin.
func rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// ackley has a nearly flat outer region and a deep central funnel, minimal
// at the origin.
func ackley(x []float64) float64 {
	n := float64(len(x))
	var squares, cosines float64
	for _, v := range x {
		squares += v * v
		cosines += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(squares/n)) - math.Exp(cosines/n) + 20 + math.E
}

// griewank combines a quadratic bowl with an oscillating product term,
// minimal at the origin.
func griewank(x []float64) float64 {
	var sum float64
	product := 1.0
	for i, v := range x {
		sum += v * v / 4000
		product *= math.Cos(v / math.Sqrt(float64(i+1)))
	}
	return 1 + sum - product
}

// schwefel places its global minimum far from the domain center, near
// 420.9687 in every coordinate.
func schwefel(x []float64) float64 {
	sum := 418.9828872724339 * float64(len(x))
	for _, v := range x {
		sum -= v * math.Sin(math.Sqrt(math.Abs(v)))
	}
	return sum
}

// beale is a two-dimensional valley, minimal at (3, 0.5).
func beale(x []float64) float64 {
	a := 1.5 - x[0] + x[0]*x[1]
	b := 2.25 - x[0] + x[0]*x[1]*x[1]
	c := 2.625 - x[0] + x[0]*x[1]*x[1]*x[1]
	return a*a + b*b + c*c
}

// booth is a mild two-dimensional quadratic, minimal at (1, 3).
func booth(x []float64) float64 {
	a := x[0] + 2*x[1] - 7
	b := 2*x[0] + x[1] - 5
	return a*a + b*b
}

// himmelblau has four identical global minima; (3, 2) is the canonical one.
func himmelblau(x []float64) float64 {
	a := x[0]*x[0] + x[1] - 11
	b := x[0] + x[1]*x[1] - 7
	return a*a + b*b
}

// bird is a multimodal trigonometric surface with two global minima around
// -106.7645.
func bird(x []float64) float64 {
	sc := 1 - math.Cos(x[1])
	ss := 1 - math.Sin(x[0])
	d := x[0] - x[1]
	return math.Sin(x[0])*math.Exp(sc*sc) + math.Cos(x[1])*math.Exp(ss*ss) + d*d
}

// eggholder is an aggressively multimodal surface whose global minimum sits
// on the domain boundary at (512, 404.2319).
func eggholder(x []float64) float64 {
	a := x[1] + 47
	return -a*math.Sin(math.Sqrt(math.Abs(x[0]/2+a))) -
		x[0]*math.Sin(math.Sqrt(math.Abs(x[0]-a)))
}
