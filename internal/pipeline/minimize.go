package pipeline

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/autodiff/ops"
	"github.com/born-ml/dezero/internal/optim"
	"github.com/born-ml/dezero/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"
)

// Step is one iteration of Minimize: the objective before the update.
type Step struct {
	Step int     `json:"step"`
	Loss float64 `json:"loss"`
}

// MinimizeResult is the trace of a minimization.
type MinimizeResult struct {
	Shape     tensor.Shape `json:"shape"`
	Optimizer string       `json:"optimizer"`
	Start     []float64    `json:"start"`
	Final     []float64    `json:"final"`
	FinalLoss float64      `json:"final_loss"`
	Steps     []Step       `json:"steps"`
}

// Minimize treats the sum of the chain's output as an objective and moves the
// input downhill for the given number of steps. Each step records the
// operations on a fresh tape, seeds the output with ones, runs the backward
// pass and lets the optimizer update the input.
func (p *Pipeline) Minimize(input *tensor.Buffer, cfg optim.Config, steps int) (result *MinimizeResult, err error) {
	if steps <= 0 {
		return nil, errors.Errorf("steps must be positive, got %d", steps)
	}
	x := autodiff.NewVariable(clone(input.Data))
	opt, err := optim.New(cfg, []*autodiff.Variable{x})
	if err != nil {
		return nil, err
	}

	result = &MinimizeResult{
		Shape:     input.Shape.Clone(),
		Optimizer: cfg.Name,
		Start:     clone(input.Data),
		Steps:     make([]Step, 0, steps),
	}
	err = exceptions.TryCatch[error](func() {
		for i := range steps {
			loss := p.step(x)
			result.Steps = append(result.Steps, Step{Step: i, Loss: loss})
			opt.Step()
			opt.ZeroGrad()
		}
		result.FinalLoss = floats.Sum(p.Eval(x.Data))
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline %s", p)
	}
	result.Final = clone(x.Data)
	klog.V(1).Infof("pipeline %s: %s minimized %g -> %g in %d steps", p, cfg.Name, result.Steps[0].Loss, result.FinalLoss, steps)
	return result, nil
}

// step runs one forward and ones-seeded backward pass from x and returns the
// objective. x.Grad holds the gradient afterwards.
func (p *Pipeline) step(x *autodiff.Variable) float64 {
	tape := autodiff.NewTape()
	defer tape.Clear()

	y := x
	for _, k := range p.kinds {
		op, err := ops.NewKind(k, tape)
		if err != nil {
			panic(err)
		}
		y = autodiff.Call(op, y)
	}
	y.Grad = make([]float64, len(y.Data))
	floats.AddConst(1, y.Grad)
	y.Backward()
	return floats.Sum(y.Data)
}
