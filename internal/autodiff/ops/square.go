package ops

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"gonum.org/v1/gonum/floats"
)

// Square represents the square operation: y = x².
//
// Backward pass:
//   - d(x²)/dx = 2x
//   - grad_input = 2 * input * grad_output
type Square struct {
	autodiff.OpBase
}

// NewSquare creates a Square bound to tape.
func NewSquare(tape *autodiff.Tape) *Square {
	return &Square{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Square) Kind() autodiff.Kind { return autodiff.KindSquare }

// Forward computes x² element-wise.
func (op *Square) Forward(x []float64) []float64 {
	y := make([]float64, len(x))
	floats.MulTo(y, x, x)
	return y
}

// Backward computes 2 * input * gy.
func (op *Square) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	gx := make([]float64, len(x))
	floats.MulTo(gx, x, gy)
	floats.Scale(2, gx)
	return gx
}

// Call runs the operation on x and links the output into the graph.
func (op *Square) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
