package ops

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"
)

// unary applies f to every element of x into a new slice.
func unary(x []float64, f func(float64) float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = f(v)
	}
	return y
}

// rememberedInput returns the data of the input remembered by the last Call.
// It panics if op was never called or gy is not element-aligned with it.
func rememberedInput(op autodiff.Operation, gy []float64) []float64 {
	input := op.Input()
	if input == nil {
		exceptions.Panicf("%s.Backward: no input remembered, Call was never made", op.Kind())
	}
	if len(gy) != len(input.Data) {
		exceptions.Panicf("%s.Backward: output gradient has %d elements, input has %d", op.Kind(), len(gy), len(input.Data))
	}
	return input.Data
}

// chainRule scales the local derivative element-wise by gy, in place.
func chainRule(local, gy []float64) []float64 {
	floats.Mul(local, gy)
	return local
}
