// Package numdiff estimates derivatives by finite differences.
//
// It exists to cross-check analytic gradients from the autodiff package:
//
//	numeric := numdiff.Central(f, x, numdiff.DefaultEpsilon)
//	ok := numdiff.Close(analytic, numeric, 1e-4)
package numdiff

import (
	"math"
	"slices"

	"github.com/born-ml/dezero/internal/parallel"
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"
)

// DefaultEpsilon is the step used by the gradient checks.
const DefaultEpsilon = 1e-4

// Func maps input data to output data.
type Func func(x []float64) []float64

// Central estimates the gradient of sum(f(x)) with respect to each element of x:
//
//	grad[i] = (sum f(x + eps·e_i) - sum f(x - eps·e_i)) / (2·eps)
//
// For element-local f this equals the element-wise derivative f'(x_i), the
// same quantity a backward pass seeded with ones produces. x is restored before
// returning.
func Central(f Func, x []float64, eps float64) []float64 {
	if eps <= 0 {
		exceptions.Panicf("numdiff.Central: epsilon must be positive, got %g", eps)
	}
	grad := make([]float64, len(x))
	for i := range x {
		original := x[i]

		x[i] = original + eps
		fPlus := floats.Sum(f(x))

		x[i] = original - eps
		fMinus := floats.Sum(f(x))

		x[i] = original
		grad[i] = (fPlus - fMinus) / (2 * eps)
	}
	return grad
}

// CentralParallel is Central with the elements spread over cfg's workers.
// Each element is perturbed in a private copy of x, so x is never modified and
// f may be called from several goroutines at once.
func CentralParallel(f Func, x []float64, eps float64, cfg parallel.Config) []float64 {
	if eps <= 0 {
		exceptions.Panicf("numdiff.CentralParallel: epsilon must be positive, got %g", eps)
	}
	grad := make([]float64, len(x))
	parallel.For(len(x), func(i int) {
		xi := slices.Clone(x)

		xi[i] = x[i] + eps
		fPlus := floats.Sum(f(xi))

		xi[i] = x[i] - eps
		fMinus := floats.Sum(f(xi))

		grad[i] = (fPlus - fMinus) / (2 * eps)
	}, cfg)
	return grad
}

// MaxAbsDiff returns the largest element-wise absolute difference.
// It returns NaN if any difference is NaN and panics if the lengths differ.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		exceptions.Panicf("numdiff.MaxAbsDiff: lengths differ (%d vs %d)", len(a), len(b))
	}
	if len(a) == 0 {
		return 0
	}
	// floats.Distance skips NaN differences.
	for i := range a {
		if math.IsNaN(a[i] - b[i]) {
			return math.NaN()
		}
	}
	return floats.Distance(a, b, math.Inf(1))
}

// Close reports whether a and b agree element-wise within tol.
func Close(a, b []float64, tol float64) bool {
	return len(a) == len(b) && floats.EqualApprox(a, b, tol)
}
