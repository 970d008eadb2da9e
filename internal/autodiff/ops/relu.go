package ops

import "github.com/born-ml/dezero/internal/autodiff"

// ReLU represents the rectified linear unit: y = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
//   - grad_input = grad_output * (input > 0 ? 1 : 0)
type ReLU struct {
	autodiff.OpBase
}

// NewReLU creates a ReLU bound to tape.
func NewReLU(tape *autodiff.Tape) *ReLU {
	return &ReLU{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *ReLU) Kind() autodiff.Kind { return autodiff.KindReLU }

// Forward computes max(0, x) element-wise.
func (op *ReLU) Forward(x []float64) []float64 {
	return unary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Backward passes gy through where the input was positive.
func (op *ReLU) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	gx := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			gx[i] = gy[i]
		}
	}
	return gx
}

// Call runs the operation on x and links the output into the graph.
func (op *ReLU) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
