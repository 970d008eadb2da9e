package optim

import (
	"math"

	"github.com/born-ml/dezero/internal/autodiff"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*autodiff.Variable
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int                              // Timestep for bias correction
	m      map[*autodiff.Variable][]float64 // First moment estimates
	v      map[*autodiff.Variable][]float64 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero fields take the defaults.
func NewAdam(params []*autodiff.Variable, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas == [2]float64{} {
		config.Betas = [2]float64{0.9, 0.999}
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*autodiff.Variable][]float64),
		v:      make(map[*autodiff.Variable][]float64),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step() {
	a.t++
	bias1 := 1 - math.Pow(a.beta1, float64(a.t))
	bias2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, param := range a.params {
		if param.Grad == nil {
			continue
		}
		m, ok := a.m[param]
		if !ok {
			m = make([]float64, len(param.Data))
			a.m[param] = m
			a.v[param] = make([]float64, len(param.Data))
		}
		v := a.v[param]

		for i, g := range param.Grad {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
			mHat := m[i] / bias1
			vHat := v[i] / bias2
			param.Data[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears all parameter gradients.
func (a *Adam) ZeroGrad() { zeroGrad(a.params) }

// LR returns the current learning rate.
func (a *Adam) LR() float64 { return a.lr }

// SetLR sets the learning rate.
func (a *Adam) SetLR(lr float64) { a.lr = lr }
