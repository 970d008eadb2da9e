// Package optim implements gradient-based updates of autodiff Variables.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	x := autodiff.NewVariable([]float64{2})
//	opt, _ := optim.New(optim.Config{Name: "adam", LR: 0.1}, []*autodiff.Variable{x})
//
//	for range steps {
//	    tape := autodiff.NewTape()
//	    y := ops.NewSquare(tape).Call(x)
//	    y.Grad = []float64{1}
//	    y.Backward()
//
//	    opt.Step()
//	    opt.ZeroGrad()
//	    tape.Clear()
//	}
package optim

import (
	"strings"

	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/pkg/errors"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers read the Grad of each parameter and update its Data in place.
type Optimizer interface {
	// Step applies one update to every parameter with a gradient.
	// Parameters whose Grad is nil did not take part in the backward pass
	// and are skipped.
	Step()

	// ZeroGrad drops the gradients of all parameters.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR changes the learning rate, e.g. from a schedule.
	SetLR(lr float64)
}

// Names of the available optimizers.
const (
	NameSGD  = "sgd"
	NameAdam = "adam"
)

// Config selects and configures an optimizer.
type Config struct {
	Name     string  // "sgd" or "adam"
	LR       float64 // Learning rate, optimizer default when zero
	Momentum float64 // SGD momentum in [0, 1)
}

// New creates the optimizer named by cfg over params.
func New(cfg Config, params []*autodiff.Variable) (Optimizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case NameSGD, "":
		if cfg.Momentum < 0 || cfg.Momentum >= 1 {
			return nil, errors.Errorf("sgd: momentum must be in [0, 1), got %g", cfg.Momentum)
		}
		return NewSGD(params, SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case NameAdam:
		return NewAdam(params, AdamConfig{LR: cfg.LR}), nil
	default:
		return nil, errors.Errorf("unknown optimizer %q (want %s or %s)", cfg.Name, NameSGD, NameAdam)
	}
}

// zeroGrad clears the gradient of every parameter.
func zeroGrad(params []*autodiff.Variable) {
	for _, p := range params {
		p.ClearGrad()
	}
}
