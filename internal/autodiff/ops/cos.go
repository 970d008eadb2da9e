package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Cos represents the cosine operation: y = cos(x).
//
// Backward pass:
//   - d(cos(x))/dx = -sin(x)
//   - grad_input = grad_output * (-sin(input))
type Cos struct {
	autodiff.OpBase
}

// NewCos creates a Cos bound to tape.
func NewCos(tape *autodiff.Tape) *Cos {
	return &Cos{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Cos) Kind() autodiff.Kind { return autodiff.KindCos }

// Forward computes cos(x) element-wise.
func (op *Cos) Forward(x []float64) []float64 {
	return unary(x, math.Cos)
}

// Backward computes -sin(input) * gy.
func (op *Cos) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	negSin := unary(x, func(v float64) float64 { return -math.Sin(v) })
	return chainRule(negSin, gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Cos) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
