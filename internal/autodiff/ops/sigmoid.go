package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Sigmoid represents the sigmoid activation operation: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct {
	autodiff.OpBase
}

// NewSigmoid creates a Sigmoid bound to tape.
func NewSigmoid(tape *autodiff.Tape) *Sigmoid {
	return &Sigmoid{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Sigmoid) Kind() autodiff.Kind { return autodiff.KindSigmoid }

// Forward computes σ(x) element-wise.
func (op *Sigmoid) Forward(x []float64) []float64 {
	return unary(x, sigmoid)
}

// Backward computes the gradient for sigmoid.
//
// For σ(x) = 1 / (1 + exp(-x)):
// dσ/dx = σ(x) * (1 - σ(x)).
func (op *Sigmoid) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	local := unary(x, func(v float64) float64 {
		s := sigmoid(v)
		return s * (1 - s)
	})
	return chainRule(local, gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Sigmoid) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
