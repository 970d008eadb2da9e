package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Exp represents the exponential operation: y = exp(x).
//
// Backward pass:
//   - d(exp(x))/dx = exp(x)
//   - grad_input = exp(input) * grad_output
//
// The derivative is recomputed from the remembered input rather than read from
// the output, so Backward depends on nothing but Call's input.
type Exp struct {
	autodiff.OpBase
}

// NewExp creates an Exp bound to tape.
func NewExp(tape *autodiff.Tape) *Exp {
	return &Exp{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Exp) Kind() autodiff.Kind { return autodiff.KindExp }

// Forward computes exp(x) element-wise.
func (op *Exp) Forward(x []float64) []float64 {
	return unary(x, math.Exp)
}

// Backward computes exp(input) * gy.
func (op *Exp) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	return chainRule(unary(x, math.Exp), gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Exp) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
