// Package bench provides a registry of named benchmark objectives for the
// search engine: classical test functions with known optima plus a few
// constrained engineering design problems in penalty form. Entries are
// plain Vector -> Scalar objectives so they plug directly into the engine
// without adapters.
package bench

import (
	"fmt"
	"sort"
	"strings"
)

// Function kinds, used for grouping in listings.
const (
	KindClassical   = "classical"
	KindEngineering = "engineering"
)

// Function describes one registered objective.
type Function struct {
	// Name is the registry key, always lowercase.
	Name string

	// Kind groups the function for listings (classical or engineering).
	Kind string

	// Dim is the default dimensionality.
	Dim int

	// Scalable reports whether the function is defined for any Dim >= 1.
	// Fixed-dimension entries reject WithDim calls that change Dim.
	Scalable bool

	// Bounds is the uniform per-coordinate domain, used when BoundsPerDim
	// is nil.
	Bounds [2]float64

	// BoundsPerDim overrides Bounds for functions whose coordinates have
	// heterogeneous domains, such as the engineering problems.
	BoundsPerDim [][2]float64

	// Optimum is the known global minimum value. Only meaningful when
	// OptimumKnown is true; the engineering problems report best-known
	// values informally in their doc comments instead.
	Optimum      float64
	OptimumKnown bool

	// OptimumAt is a location of the global minimum, matching Dim.
	OptimumAt []float64

	// Objective evaluates one candidate position.
	Objective func(x []float64) float64
}

// SearchBounds expands the function domain to dim rows of (lower, upper).
func (f Function) SearchBounds(dim int) [][2]float64 {
	if f.BoundsPerDim != nil {
		out := make([][2]float64, len(f.BoundsPerDim))
		copy(out, f.BoundsPerDim)
		return out
	}
	out := make([][2]float64, dim)
	for i := range out {
		out[i] = f.Bounds
	}
	return out
}

// WithDim returns a copy of the function at dimensionality n. Fixed-size
// functions only accept their own Dim. Every scalable entry in the registry
// has a uniform optimum location, so OptimumAt is re-expanded coordinate-wise.
func (f Function) WithDim(n int) (Function, error) {
	if n < 1 {
		return Function{}, fmt.Errorf("benchmark %s: dimension %d is not positive", f.Name, n)
	}
	if n == f.Dim {
		return f, nil
	}
	if !f.Scalable {
		return Function{}, fmt.Errorf("benchmark %s is fixed at %d dimensions, got %d", f.Name, f.Dim, n)
	}
	out := f
	out.Dim = n
	if f.OptimumKnown && len(f.OptimumAt) > 0 {
		at := make([]float64, n)
		for i := range at {
			at[i] = f.OptimumAt[0]
		}
		out.OptimumAt = at
	}
	return out, nil
}

var registry = map[string]Function{}

func init() {
	for _, f := range classicalFunctions() {
		register(f)
	}
	for _, f := range engineeringFunctions() {
		register(f)
	}
}

func register(f Function) {
	if _, dup := registry[f.Name]; dup {
		panic("bench: duplicate function " + f.Name)
	}
	registry[f.Name] = f
}

// Lookup resolves a registered function by name, case-insensitively.
func Lookup(name string) (Function, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Names returns all registered function names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
