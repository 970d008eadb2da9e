package tensor_test

import (
	"testing"

	"github.com/born-ml/dezero/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromRowsToDense(t *testing.T) {
	x, err := tensor.FromRows([][]float64{{0.5, 1}, {2, 3}})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, x.Shape)

	m, err := x.Dense()
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, mat.NewDense(2, 2, []float64{0.5, 1, 2, 3})))

	back := tensor.FromDense(m)
	assert.Equal(t, x.Data, back.Data)
}

func TestFullAndOnesLike(t *testing.T) {
	x, err := tensor.Full(tensor.Shape{3}, 2.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, x.Data)
	assert.Equal(t, []float64{1, 1, 1}, tensor.OnesLike(x).Data)

	_, err = tensor.New([]float64{1, 2}, tensor.Shape{3})
	assert.Error(t, err)
}
