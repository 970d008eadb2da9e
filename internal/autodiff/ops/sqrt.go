package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Sqrt represents the square root: y = √x.
//
// Backward pass:
//   - d(√x)/dx = 1 / (2√x)
//   - grad_input = grad_output / (2 * sqrt(input))
type Sqrt struct {
	autodiff.OpBase
}

// NewSqrt creates a Sqrt bound to tape.
func NewSqrt(tape *autodiff.Tape) *Sqrt {
	return &Sqrt{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Sqrt) Kind() autodiff.Kind { return autodiff.KindSqrt }

// Forward computes √x element-wise.
func (op *Sqrt) Forward(x []float64) []float64 {
	return unary(x, math.Sqrt)
}

// Backward computes gy / (2√input).
func (op *Sqrt) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	local := unary(x, func(v float64) float64 { return 0.5 / math.Sqrt(v) })
	return chainRule(local, gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Sqrt) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
