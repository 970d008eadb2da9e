package pipeline

import (
	"math"
	"testing"

	"github.com/born-ml/dezero/internal/optim"
	"github.com/born-ml/dezero/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRows(t *testing.T, rows [][]float64) *tensor.Buffer {
	t.Helper()
	b, err := tensor.FromRows(rows)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	p, err := New([]string{"square", "EXP", " square"})
	require.NoError(t, err)
	assert.Equal(t, []string{"square", "exp", "square"}, p.Names())
	assert.Equal(t, "square -> exp -> square", p.String())

	_, err = New(nil)
	assert.EqualError(t, err, "pipeline needs at least one operation")

	_, err = New([]string{"square", "conv2d"})
	assert.EqualError(t, err, `stage 1: unknown operation "conv2d"`)
}

func TestRun_SquareExpSquare(t *testing.T) {
	p, err := New([]string{"square", "exp", "square"})
	require.NoError(t, err)

	res, err := p.Run(mustRows(t, [][]float64{{0.5}}), nil)
	require.NoError(t, err)
	require.Len(t, res.Stages, 4)

	assert.Equal(t, tensor.Shape{1, 1}, res.Shape)
	assert.Equal(t, "x", res.Input().Name)
	assert.Equal(t, []string{"x", "square", "exp", "square"},
		[]string{res.Stages[0].Name, res.Stages[1].Name, res.Stages[2].Name, res.Stages[3].Name})

	assert.InDelta(t, 0.25, res.Stages[1].Data[0], 1e-12)
	assert.InDelta(t, 1.284025, res.Stages[2].Data[0], 1e-6)
	assert.InDelta(t, 1.648722, res.Output().Data[0], 1e-6)
	assert.Equal(t, []float64{1}, res.Output().Grad)
	assert.InDelta(t, 3.297442, res.Input().Grad[0], 1e-6)
}

func TestRun_CustomSeedScalesGradient(t *testing.T) {
	p, err := New([]string{"sin"})
	require.NoError(t, err)

	input := mustRows(t, [][]float64{{0, math.Pi}})
	seed := mustRows(t, [][]float64{{2, 3}})
	res, err := p.Run(input, seed)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2, -3}, res.Input().Grad, 1e-12)
	assert.Equal(t, []float64{0, math.Pi}, input.Data, "input buffer must not be modified")
}

func TestRun_SeedMismatchIsAnError(t *testing.T) {
	p, err := New([]string{"exp"})
	require.NoError(t, err)

	_, err = p.Run(mustRows(t, [][]float64{{1, 2}}), mustRows(t, [][]float64{{1}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline exp")
	assert.Contains(t, err.Error(), "seed gradient has 1 elements, data has 2")
}

func TestRun_EmptyInput(t *testing.T) {
	p, err := New([]string{"square", "exp"})
	require.NoError(t, err)

	res, err := p.Run(mustRows(t, nil), nil)
	require.NoError(t, err)
	for _, s := range res.Stages {
		assert.Empty(t, s.Data)
		assert.NotNil(t, s.Grad)
		assert.Empty(t, s.Grad)
	}
}

func TestEval(t *testing.T) {
	p, err := New([]string{"square", "exp", "square"})
	require.NoError(t, err)
	y := p.Eval([]float64{0.5})
	assert.InDelta(t, math.Exp(0.5), y[0], 1e-12)
}

func TestResult_Tensors(t *testing.T) {
	p, err := New([]string{"square", "exp"})
	require.NoError(t, err)
	res, err := p.Run(mustRows(t, [][]float64{{0.5, 1}}), nil)
	require.NoError(t, err)

	tensors, err := res.Tensors()
	require.NoError(t, err)
	assert.Len(t, tensors, 6)
	for _, name := range []string{"00.x.data", "00.x.grad", "01.square.data", "01.square.grad", "02.exp.data", "02.exp.grad"} {
		require.Contains(t, tensors, name)
		assert.Equal(t, tensor.Shape{1, 2}, tensors[name].Shape, name)
	}
	assert.Equal(t, res.Output().Data, tensors["02.exp.data"].Data)
	assert.Equal(t, res.Input().Grad, tensors["00.x.grad"].Data)
}

func TestCheck_Catalogue(t *testing.T) {
	chains := [][]string{
		{"square", "exp", "square"},
		{"sin", "cos"},
		{"sigmoid", "tanh"},
		{"exp", "sqrt", "log"},
		{"relu", "square"},
	}
	input := mustRows(t, [][]float64{{0.5, 0.3}, {-0.7, 0.9}})
	for _, names := range chains {
		p, err := New(names)
		require.NoError(t, err)

		check, err := p.Check(input, 1e-4, 1e-4)
		require.NoError(t, err, "%v", names)
		assert.True(t, check.Passed, "%v: max diff %g", names, check.MaxAbsDiff)
		assert.Equal(t, tensor.Shape{2, 2}, check.Shape)
		assert.Len(t, check.Analytic, 4)
	}
}

func TestCheck_WorkersAgree(t *testing.T) {
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = make([]float64, 16)
		for j := range rows[i] {
			rows[i][j] = float64(i*16+j)/64 - 0.5
		}
	}
	input := mustRows(t, rows)

	p, err := New([]string{"tanh", "square", "sin"})
	require.NoError(t, err)

	p.SetWorkers(1)
	sequential, err := p.Check(input, 1e-4, 1e-4)
	require.NoError(t, err)

	p.SetWorkers(4)
	concurrent, err := p.Check(input, 1e-4, 1e-4)
	require.NoError(t, err)

	assert.True(t, concurrent.Passed)
	assert.Equal(t, sequential.Numeric, concurrent.Numeric)
	assert.Equal(t, sequential.Analytic, concurrent.Analytic)
}

func TestCheck_OutsideDomainFails(t *testing.T) {
	tests := []struct {
		op    string
		input float64
	}{
		{"log", -1},
		{"sqrt", 0},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			p, err := New([]string{tt.op})
			require.NoError(t, err)

			check, err := p.Check(mustRows(t, [][]float64{{tt.input}}), 1e-4, 1e-4)
			require.NoError(t, err)
			assert.True(t, math.IsNaN(check.Numeric[0]))
			assert.True(t, math.IsNaN(check.MaxAbsDiff))
			assert.False(t, check.Passed)
		})
	}
}

func TestRun_RejectsMalformedInput(t *testing.T) {
	p, err := New([]string{"square"})
	require.NoError(t, err)

	_, err = p.Run(nil, nil)
	assert.EqualError(t, err, "pipeline square: input is required")

	bad := &tensor.Buffer{Data: []float64{1, 2}, Shape: tensor.Shape{3}}
	_, err = p.Run(bad, nil)
	assert.EqualError(t, err, "pipeline square: input shape [3] needs 3 elements, data has 2")

	_, err = p.Check(nil, 1e-4, 1e-4)
	assert.Error(t, err)
}

func TestCheck_RejectsBadParameters(t *testing.T) {
	p, err := New([]string{"square"})
	require.NoError(t, err)
	_, err = p.Check(mustRows(t, [][]float64{{1}}), 0, 1e-4)
	assert.Error(t, err)
	_, err = p.Check(mustRows(t, [][]float64{{1}}), 1e-4, -1)
	assert.Error(t, err)
}

func TestMinimize(t *testing.T) {
	p, err := New([]string{"square"})
	require.NoError(t, err)
	input := mustRows(t, [][]float64{{2, -1}})

	res, err := p.Minimize(input, optim.Config{Name: "sgd", LR: 0.1}, 50)
	require.NoError(t, err)
	require.Len(t, res.Steps, 50)
	assert.InDelta(t, 5.0, res.Steps[0].Loss, 1e-12)
	for i := 1; i < len(res.Steps); i++ {
		assert.Less(t, res.Steps[i].Loss, res.Steps[i-1].Loss)
	}
	assert.Less(t, res.FinalLoss, 1e-8)
	assert.Equal(t, []float64{2, -1}, res.Start)
	assert.Equal(t, []float64{2, -1}, input.Data, "input must not be modified")
	assert.Equal(t, tensor.Shape{1, 2}, res.Shape)
}

func TestMinimize_Errors(t *testing.T) {
	p, err := New([]string{"exp"})
	require.NoError(t, err)
	input := mustRows(t, [][]float64{{1}})

	_, err = p.Minimize(input, optim.Config{Name: "sgd"}, 0)
	assert.EqualError(t, err, "steps must be positive, got 0")

	_, err = p.Minimize(input, optim.Config{Name: "lbfgs"}, 10)
	assert.Error(t, err)
}
