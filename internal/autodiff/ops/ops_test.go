package ops

import (
	"math"
	"testing"

	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/numdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	epsilonGrad = 1e-4
	tolerance   = 1e-6
)

func TestOps_Forward(t *testing.T) {
	x := []float64{0.5, 2, -1}
	tests := []struct {
		name string
		want func(float64) float64
	}{
		{"square", func(v float64) float64 { return v * v }},
		{"exp", math.Exp},
		{"sin", math.Sin},
		{"cos", math.Cos},
		{"tanh", math.Tanh},
		{"sigmoid", func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }},
		{"relu", func(v float64) float64 { return math.Max(0, v) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := New(tt.name, nil)
			require.NoError(t, err)
			y := op.Forward(x)
			require.Len(t, y, len(x))
			for i, v := range x {
				assert.InDelta(t, tt.want(v), y[i], 1e-12)
			}
		})
	}
}

func TestOps_ForwardPositiveDomain(t *testing.T) {
	x := []float64{0.25, 1, 4}
	log, err := New("log", nil)
	require.NoError(t, err)
	sqrt, err := New("sqrt", nil)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{math.Log(0.25), 0, math.Log(4)}, log.Forward(x), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 1, 2}, sqrt.Forward(x), 1e-12)
}

// TestOps_BackwardMatchesNumerical checks every catalogue entry against a
// central difference at points inside its domain.
func TestOps_BackwardMatchesNumerical(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			x := []float64{0.3, 1.7, -0.8}
			if name == "log" || name == "sqrt" {
				x = []float64{0.3, 1.7, 0.8}
			}
			if name == "relu" {
				x = []float64{0.3, -1.7, 0.8}
			}

			tape := autodiff.NewTape()
			op, err := New(name, tape)
			require.NoError(t, err)

			y := autodiff.Call(op, autodiff.NewVariable(x))
			gy := []float64{1, 1, 1}
			analytic := op.Backward(gy)

			numeric := numdiff.Central(op.Forward, append([]float64(nil), x...), epsilonGrad)
			assert.InDeltaSlice(t, numeric, analytic, tolerance)
			assert.Len(t, y.Data, len(x))
		})
	}
}

func TestSquare_Backward(t *testing.T) {
	tape := autodiff.NewTape()
	sq := NewSquare(tape)
	sq.Call(autodiff.NewVariable([]float64{3, -2}))

	gx := sq.Backward([]float64{1, 0.5})
	assert.Equal(t, []float64{6, -2}, gx)
}

func TestExp_BackwardUsesRememberedInput(t *testing.T) {
	tape := autodiff.NewTape()
	e := NewExp(tape)
	e.Call(autodiff.NewVariable([]float64{1}))

	gx := e.Backward([]float64{2})
	assert.InDelta(t, 2*math.E, gx[0], 1e-12)

	// A second call replaces the remembered input.
	e.Call(autodiff.NewVariable([]float64{0}))
	gx = e.Backward([]float64{2})
	assert.InDelta(t, 2.0, gx[0], 1e-12)
}

func TestReLU_BackwardMasksNegative(t *testing.T) {
	r := NewReLU(autodiff.NewTape())
	r.Call(autodiff.NewVariable([]float64{-1, 0, 2}))
	assert.Equal(t, []float64{0, 0, 5}, r.Backward([]float64{5, 5, 5}))
}

func TestOps_BackwardBeforeCallPanics(t *testing.T) {
	sq := NewSquare(autodiff.NewTape())
	assert.PanicsWithError(t, "square.Backward: no input remembered, Call was never made", func() {
		sq.Backward([]float64{1})
	})
}

func TestOps_BackwardShapeMismatchPanics(t *testing.T) {
	e := NewExp(autodiff.NewTape())
	e.Call(autodiff.NewVariable([]float64{1, 2}))
	assert.PanicsWithError(t, "exp.Backward: output gradient has 3 elements, input has 2", func() {
		e.Backward([]float64{1, 1, 1})
	})
}

func TestOps_ZeroLength(t *testing.T) {
	for _, name := range Names() {
		op, err := New(name, autodiff.NewTape())
		require.NoError(t, err)
		y := autodiff.Call(op, autodiff.NewVariable([]float64{}))
		assert.Empty(t, y.Data, name)
		gx := op.Backward([]float64{})
		assert.NotNil(t, gx, name)
		assert.Empty(t, gx, name)
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t,
		[]string{"square", "exp", "log", "sin", "cos", "tanh", "sigmoid", "sqrt", "relu"},
		Names())

	tape := autodiff.NewTape()
	for _, kind := range autodiff.Kinds() {
		op, err := NewKind(kind, tape)
		require.NoError(t, err)
		assert.Equal(t, kind, op.Kind())
		assert.Same(t, tape, op.Tape())
	}

	_, err := New("softmax", tape)
	assert.EqualError(t, err, `unknown operation "softmax"`)

	_, err = NewKind(autodiff.KindUnknown, tape)
	assert.EqualError(t, err, "no operation registered for kind unknown")
}
