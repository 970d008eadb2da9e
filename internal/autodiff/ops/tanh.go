package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Tanh represents the hyperbolic tangent: y = tanh(x).
//
// Backward pass:
//   - d(tanh(x))/dx = 1 - tanh²(x)
//   - grad_input = grad_output * (1 - tanh²(input))
type Tanh struct {
	autodiff.OpBase
}

// NewTanh creates a Tanh bound to tape.
func NewTanh(tape *autodiff.Tape) *Tanh {
	return &Tanh{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Tanh) Kind() autodiff.Kind { return autodiff.KindTanh }

// Forward computes tanh(x) element-wise.
func (op *Tanh) Forward(x []float64) []float64 {
	return unary(x, math.Tanh)
}

// Backward computes (1 - tanh²(input)) * gy.
func (op *Tanh) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	local := unary(x, func(v float64) float64 {
		t := math.Tanh(v)
		return 1 - t*t
	})
	return chainRule(local, gy)
}

// Call runs the operation on x and links the output into the graph.
func (op *Tanh) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
