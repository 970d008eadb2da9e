package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Sin represents the sine operation: y = sin(x).
//
// Backward pass:
//   - d(sin(x))/dx = cos(x)
//   - grad_input = grad_output * cos(input)
type Sin struct {
	autodiff.OpBase
}

// NewSin creates a Sin bound to tape.
func NewSin(tape *autodiff.Tape) *Sin {
	return &Sin{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Sin) Kind() autodiff.Kind { return autodiff.KindSin }

// Forward computes sin(x) element-wise.
func (op *Sin) Forward(x []float64) []float64 {
	return unary(x, math.Sin)
}

// Backward computes cos(input) * gy.
func (op *Sin) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	return chainRule(unary(x, math.Cos), gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Sin) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
