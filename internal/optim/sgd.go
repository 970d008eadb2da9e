package optim

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*autodiff.Variable
	lr         float64
	momentum   float64
	velocities map[*autodiff.Variable][]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autodiff.Variable, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*autodiff.Variable][]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for _, param := range s.params {
		if param.Grad == nil {
			continue
		}
		if s.momentum == 0 {
			// param -= lr * grad
			floats.AddScaled(param.Data, -s.lr, param.Grad)
			continue
		}

		v, ok := s.velocities[param]
		if !ok {
			v = make([]float64, len(param.Data))
			s.velocities[param] = v
		}
		// v = momentum * v + grad
		floats.Scale(s.momentum, v)
		floats.Add(v, param.Grad)
		floats.AddScaled(param.Data, -s.lr, v)
	}
}

// ZeroGrad clears all parameter gradients.
func (s *SGD) ZeroGrad() { zeroGrad(s.params) }

// LR returns the current learning rate.
func (s *SGD) LR() float64 { return s.lr }

// SetLR sets the learning rate.
func (s *SGD) SetLR(lr float64) { s.lr = lr }
