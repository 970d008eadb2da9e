// Package tensor shapes raw numeric buffers before they enter the autodiff
// engine, and back again afterwards.
//
// The engine itself only sees flat []float64 payloads. Buffer pairs such a
// payload with a Shape and converts from and to gonum matrices:
//
//	buf := tensor.FromDense(mat.NewDense(1, 1, []float64{0.5}))
//	x := autodiff.NewVariable(buf.Data)
//	// ... forward, seed, backward ...
//	grad, _ := tensor.New(x.Grad, buf.Shape)
//	m, _ := grad.Dense()
package tensor

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Buffer is a flat, row-major float64 payload with its shape.
type Buffer struct {
	Data  []float64
	Shape Shape
}

// New wraps data with shape. The slice is not copied.
func New(data []float64, shape Shape) (*Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Errorf("shape %v needs %d elements, data has %d", shape, shape.NumElements(), len(data))
	}
	return &Buffer{Data: data, Shape: shape.Clone()}, nil
}

// Full returns a buffer of the given shape with every element set to v.
func Full(shape Shape, v float64) (*Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]float64, shape.NumElements())
	floats.AddConst(v, data)
	return &Buffer{Data: data, Shape: shape.Clone()}, nil
}

// OnesLike returns a buffer of ones with b's shape, the usual backward seed.
func OnesLike(b *Buffer) *Buffer {
	ones, _ := Full(b.Shape, 1)
	return ones
}

// FromRows flattens a row-major nested slice. All rows must have the same length.
func FromRows(rows [][]float64) (*Buffer, error) {
	if len(rows) == 0 {
		return &Buffer{Data: []float64{}, Shape: Shape{0, 0}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Errorf("ragged rows: row %d has %d columns, row 0 has %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Buffer{Data: data, Shape: Shape{len(rows), cols}}, nil
}

// FromDense copies any gonum matrix into a [rows, cols] buffer.
func FromDense(m mat.Matrix) *Buffer {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Buffer{Data: data, Shape: Shape{r, c}}
}

// Rows returns the buffer as a nested slice. Rank-0 and rank-1 buffers become a
// single row.
func (b *Buffer) Rows() ([][]float64, error) {
	r, c, err := b.matrixDims()
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = append([]float64(nil), b.Data[i*c:(i+1)*c]...)
	}
	return rows, nil
}

// Dense copies the buffer into a gonum matrix. Rank-0 and rank-1 buffers become
// a single row. Empty buffers cannot be represented by mat.Dense.
func (b *Buffer) Dense() (*mat.Dense, error) {
	r, c, err := b.matrixDims()
	if err != nil {
		return nil, err
	}
	if r == 0 || c == 0 {
		return nil, errors.Errorf("cannot build a matrix from empty shape %v", b.Shape)
	}
	return mat.NewDense(r, c, append([]float64(nil), b.Data...)), nil
}

// At returns the element at the given indices.
func (b *Buffer) At(indices ...int) float64 {
	if len(indices) != len(b.Shape) {
		exceptions.Panicf("tensor.At: got %d indices for shape %v", len(indices), b.Shape)
	}
	strides := b.Shape.ComputeStrides()
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= b.Shape[i] {
			exceptions.Panicf("tensor.At: index %d out of range for dimension %d of shape %v", idx, i, b.Shape)
		}
		offset += idx * strides[i]
	}
	return b.Data[offset]
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(shape=%v, data=%v)", b.Shape, b.Data)
}

func (b *Buffer) matrixDims() (rows, cols int, err error) {
	switch len(b.Shape) {
	case 0:
		return 1, 1, nil
	case 1:
		return 1, b.Shape[0], nil
	case 2:
		return b.Shape[0], b.Shape[1], nil
	default:
		return 0, 0, errors.Errorf("shape %v has rank %d, only rank <= 2 maps to a matrix", b.Shape, len(b.Shape))
	}
}
