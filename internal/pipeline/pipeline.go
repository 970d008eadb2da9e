// Package pipeline is the host layer around the autodiff engine: it turns raw
// buffers into leaf Variables, chains operations by name, seeds the final
// gradient, runs the backward pass and reads the gradients back.
//
// Each Run uses its own tape and clears it once the gradients are copied out,
// so no operation outlives the computation that recorded it.
package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/autodiff/ops"
	"github.com/born-ml/dezero/internal/numdiff"
	"github.com/born-ml/dezero/internal/parallel"
	"github.com/born-ml/dezero/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pipeline is a linear chain of single-input operations.
type Pipeline struct {
	kinds    []autodiff.Kind
	parallel parallel.Config
}

// Stage is one Variable of a finished run: the leaf input first, then the
// output of every operation in order.
type Stage struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
	Grad []float64 `json:"grad"`
}

// Result holds the stages of a run and the shape shared by all of them.
type Result struct {
	Shape  tensor.Shape `json:"shape"`
	Stages []Stage      `json:"stages"`
}

// Input returns the leaf stage.
func (r *Result) Input() Stage { return r.Stages[0] }

// Output returns the final stage.
func (r *Result) Output() Stage { return r.Stages[len(r.Stages)-1] }

// Tensors names every stage buffer for export: "00.x.data", "00.x.grad",
// "01.square.data" and so on. Stages without a gradient only export data.
func (r *Result) Tensors() (map[string]*tensor.Buffer, error) {
	out := make(map[string]*tensor.Buffer, 2*len(r.Stages))
	for i, s := range r.Stages {
		prefix := fmt.Sprintf("%02d.%s", i, s.Name)
		data, err := tensor.New(s.Data, r.Shape)
		if err != nil {
			return nil, errors.WithMessagef(err, "stage %s", prefix)
		}
		out[prefix+".data"] = data
		if s.Grad == nil {
			continue
		}
		grad, err := tensor.New(s.Grad, r.Shape)
		if err != nil {
			return nil, errors.WithMessagef(err, "stage %s gradient", prefix)
		}
		out[prefix+".grad"] = grad
	}
	return out, nil
}

// CheckResult compares analytic and numerical gradients of the input.
type CheckResult struct {
	Shape      tensor.Shape `json:"shape"`
	Input      []float64    `json:"input"`
	Analytic   []float64    `json:"analytic"`
	Numeric    []float64    `json:"numeric"`
	MaxAbsDiff float64      `json:"max_abs_diff"`
	Epsilon    float64      `json:"epsilon"`
	Tolerance  float64      `json:"tolerance"`
	Passed     bool         `json:"passed"`
}

// New builds a pipeline from operation names such as "square" or "exp".
func New(names []string) (*Pipeline, error) {
	if len(names) == 0 {
		return nil, errors.New("pipeline needs at least one operation")
	}
	kinds := make([]autodiff.Kind, len(names))
	for i, name := range names {
		kind, err := autodiff.ParseKind(name)
		if err != nil {
			return nil, errors.WithMessagef(err, "stage %d", i)
		}
		kinds[i] = kind
	}
	return &Pipeline{kinds: kinds, parallel: parallel.DefaultConfig()}, nil
}

// SetWorkers bounds the goroutines Check spends on the numerical gradient.
// n <= 0 means one per CPU and 1 keeps everything on the calling goroutine.
func (p *Pipeline) SetWorkers(n int) {
	p.parallel = parallel.WithWorkers(n)
}

// Names returns the operation names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.kinds))
	for i, k := range p.kinds {
		names[i] = k.String()
	}
	return names
}

// String implements fmt.Stringer.
func (p *Pipeline) String() string {
	return strings.Join(p.Names(), " -> ")
}

// Eval runs the forward maps only, with no tape and no graph.
func (p *Pipeline) Eval(x []float64) []float64 {
	y := x
	for _, k := range p.kinds {
		op, err := ops.NewKind(k, nil)
		if err != nil {
			panic(err)
		}
		y = op.Forward(y)
	}
	return y
}

// Run feeds input through the chain, seeds the output gradient with seed and
// runs the backward pass. A nil seed means ones.
//
// Fatal engine conditions, such as a seed that is not element-aligned with the
// output, are returned as errors.
func (p *Pipeline) Run(input, seed *tensor.Buffer) (result *Result, err error) {
	if input == nil {
		return nil, errors.Errorf("pipeline %s: input is required", p)
	}
	if len(input.Data) != input.Shape.NumElements() {
		return nil, errors.Errorf("pipeline %s: input shape %v needs %d elements, data has %d",
			p, input.Shape, input.Shape.NumElements(), len(input.Data))
	}
	if seed == nil {
		seed = tensor.OnesLike(input)
	}
	err = exceptions.TryCatch[error](func() {
		result = p.run(input, seed)
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline %s", p)
	}
	return result, nil
}

func (p *Pipeline) run(input, seed *tensor.Buffer) *Result {
	tape := autodiff.NewTape()
	defer func() {
		klog.V(1).Infof("pipeline %s: releasing %d operations", p, tape.NumOps())
		tape.Clear()
	}()

	x := autodiff.NewVariable(clone(input.Data))
	vars := []*autodiff.Variable{x}
	for _, k := range p.kinds {
		op, err := ops.NewKind(k, tape)
		if err != nil {
			panic(err)
		}
		vars = append(vars, autodiff.Call(op, vars[len(vars)-1]))
	}

	y := vars[len(vars)-1]
	y.Grad = clone(seed.Data)
	y.Backward()

	result := &Result{Shape: input.Shape.Clone(), Stages: make([]Stage, len(vars))}
	for i, v := range vars {
		name := "x"
		if i > 0 {
			name = p.kinds[i-1].String()
		}
		result.Stages[i] = Stage{Name: name, Data: clone(v.Data), Grad: clone(v.Grad)}
	}
	return result
}

// Check compares the gradient from a ones-seeded backward pass with the central
// difference estimate. It passes when every element differs by at most tol.
func (p *Pipeline) Check(input *tensor.Buffer, eps, tol float64) (*CheckResult, error) {
	if eps <= 0 || tol <= 0 {
		return nil, errors.Errorf("epsilon and tolerance must be positive, got %g and %g", eps, tol)
	}
	run, err := p.Run(input, nil)
	if err != nil {
		return nil, err
	}

	var numeric []float64
	err = exceptions.TryCatch[error](func() {
		numeric = numdiff.CentralParallel(p.Eval, input.Data, eps, p.parallel)
	})
	if err != nil {
		return nil, errors.WithMessage(err, "numerical gradient")
	}

	analytic := run.Input().Grad
	diff := numdiff.MaxAbsDiff(analytic, numeric)
	check := &CheckResult{
		Shape:      input.Shape.Clone(),
		Input:      clone(input.Data),
		Analytic:   analytic,
		Numeric:    numeric,
		MaxAbsDiff: diff,
		Epsilon:    eps,
		Tolerance:  tol,
		Passed:     !math.IsNaN(diff) && diff <= tol,
	}
	klog.V(1).Infof("pipeline %s: gradient check max |diff| = %g (tol %g)", p, diff, tol)
	return check, nil
}

func clone(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append(make([]float64, 0, len(s)), s...)
}
