// Package ops implements the operation catalogue for automatic differentiation.
//
// Every operation is element-local, shape-preserving and takes a single input.
// Each one embeds autodiff.OpBase for its call bookkeeping and supplies:
//   - Forward: the pure element-wise map
//   - Backward: the closed-form local derivative times the output gradient,
//     evaluated at the input remembered by Call
//
// Supported operations:
//   - Square: y = x² (dy/dx = 2x)
//   - Exp: y = eˣ (dy/dx = eˣ)
//   - Log: y = ln x (dy/dx = 1/x)
//   - Sin, Cos: (dy/dx = cos x, -sin x)
//   - Tanh: (dy/dx = 1 - tanh² x)
//   - Sigmoid: σ(x) = 1/(1+e⁻ˣ) (dy/dx = σ(x)(1-σ(x)))
//   - Sqrt: y = √x (dy/dx = 1/(2√x))
//   - ReLU: y = max(0, x) (dy/dx = 1 if x > 0, else 0)
package ops

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/pkg/errors"
)

var constructors = map[autodiff.Kind]func(*autodiff.Tape) autodiff.Operation{
	autodiff.KindSquare:  func(t *autodiff.Tape) autodiff.Operation { return NewSquare(t) },
	autodiff.KindExp:     func(t *autodiff.Tape) autodiff.Operation { return NewExp(t) },
	autodiff.KindLog:     func(t *autodiff.Tape) autodiff.Operation { return NewLog(t) },
	autodiff.KindSin:     func(t *autodiff.Tape) autodiff.Operation { return NewSin(t) },
	autodiff.KindCos:     func(t *autodiff.Tape) autodiff.Operation { return NewCos(t) },
	autodiff.KindTanh:    func(t *autodiff.Tape) autodiff.Operation { return NewTanh(t) },
	autodiff.KindSigmoid: func(t *autodiff.Tape) autodiff.Operation { return NewSigmoid(t) },
	autodiff.KindSqrt:    func(t *autodiff.Tape) autodiff.Operation { return NewSqrt(t) },
	autodiff.KindReLU:    func(t *autodiff.Tape) autodiff.Operation { return NewReLU(t) },
}

// New creates a fresh operation of the named kind, bound to tape.
func New(name string, tape *autodiff.Tape) (autodiff.Operation, error) {
	kind, err := autodiff.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return NewKind(kind, tape)
}

// NewKind creates a fresh operation of the given kind, bound to tape.
func NewKind(kind autodiff.Kind, tape *autodiff.Tape) (autodiff.Operation, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, errors.Errorf("no operation registered for kind %s", kind)
	}
	return ctor(tape), nil
}

// Names lists the catalogue in kind order.
func Names() []string {
	kinds := autodiff.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if _, ok := constructors[k]; ok {
			names = append(names, k.String())
		}
	}
	return names
}
