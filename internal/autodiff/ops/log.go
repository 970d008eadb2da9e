package ops

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
	"gonum.org/v1/gonum/floats"
)

// Log represents element-wise natural logarithm operation.
//
// Forward:
//
//	output = log(input)
//
// Backward:
//
//	∂L/∂input = ∂L/∂output * (1 / input)
//
// Note: input is assumed positive. Non-positive elements produce NaN or -Inf,
// as math.Log does.
type Log struct {
	autodiff.OpBase
}

// NewLog creates a Log bound to tape.
func NewLog(tape *autodiff.Tape) *Log {
	return &Log{OpBase: autodiff.NewOpBase(tape)}
}

// Kind implements autodiff.Operation.
func (op *Log) Kind() autodiff.Kind { return autodiff.KindLog }

// Forward computes log(x) element-wise.
func (op *Log) Forward(x []float64) []float64 {
	return unary(x, math.Log)
}

// Backward computes gy / input.
func (op *Log) Backward(gy []float64) []float64 {
	x := rememberedInput(op, gy)
	gx := make([]float64, len(x))
	floats.DivTo(gx, gy, x)
	return gx
}

// Call runs the operation on x and links the output into the graph.
func (op *Log) Call(x *autodiff.Variable) *autodiff.Variable {
	return autodiff.Call(op, x)
}
