// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim updates autodiff Variables from their gradients.
//
// Example:
//
//	x := autodiff.NewVariable([]float64{2})
//	opt := optim.NewSGD([]*autodiff.Variable{x}, optim.SGDConfig{LR: 0.1})
//
//	for range 100 {
//	    tape := autodiff.NewTape()
//	    y := autodiff.NewSquare(tape).Call(x)
//	    y.Grad = []float64{1}
//	    y.Backward()
//	    opt.Step()
//	    opt.ZeroGrad()
//	    tape.Clear()
//	}
package optim

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config selects and configures an optimizer by name.
type Config = optim.Config

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// New creates the optimizer named by cfg ("sgd" or "adam").
func New(cfg Config, params []*autodiff.Variable) (Optimizer, error) {
	return optim.New(cfg, params)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autodiff.Variable, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*autodiff.Variable, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
