// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 buffers that feed a chain of
// differentiable operations.
//
// A Buffer is a flat, row-major payload plus a Shape. Variables of the autodiff
// package only see the flat data; the shape travels alongside so results can be
// reported and converted back to gonum matrices.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{0.5, 1}, {2, 3}})
//	if err != nil {
//	    return err
//	}
//	m, _ := x.Dense() // *mat.Dense, 2x2
package tensor

import (
	"github.com/born-ml/dezero/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Shape is the extent of each dimension.
type Shape = tensor.Shape

// Buffer is a dense row-major float64 payload.
type Buffer = tensor.Buffer

// New wraps data in a Buffer of the given shape. The slice is not copied.
func New(data []float64, shape Shape) (*Buffer, error) {
	return tensor.New(data, shape)
}

// Full creates a Buffer filled with v.
func Full(shape Shape, v float64) (*Buffer, error) {
	return tensor.Full(shape, v)
}

// OnesLike creates a Buffer of ones shaped like b.
func OnesLike(b *Buffer) *Buffer {
	return tensor.OnesLike(b)
}

// FromRows builds a rank-2 Buffer from equally long rows.
func FromRows(rows [][]float64) (*Buffer, error) {
	return tensor.FromRows(rows)
}

// FromDense copies a gonum matrix into a rank-2 Buffer.
func FromDense(m mat.Matrix) *Buffer {
	return tensor.FromDense(m)
}
