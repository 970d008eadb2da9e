// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// element-wise operations.
//
// Every Call records its operation on a Tape and tags the output with a
// Creator naming it. Backward walks those tags from a seeded output back to the
// leaves, overwriting each input's gradient on the way.
//
// Example:
//
//	import "github.com/born-ml/dezero/autodiff"
//
//	func main() {
//	    tape := autodiff.NewTape()
//	    defer tape.Clear()
//
//	    x := autodiff.NewVariable([]float64{0.5})
//	    a := autodiff.NewSquare(tape).Call(x)
//	    b := autodiff.NewExp(tape).Call(a)
//	    y := autodiff.NewSquare(tape).Call(b)
//
//	    y.Grad = []float64{1}
//	    y.Backward()
//	    fmt.Println(x.Grad) // about [3.2974]
//	}
package autodiff

import (
	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/autodiff/ops"
)

// Variable is a node of the computation graph.
type Variable = autodiff.Variable

// Tape owns the operations recorded during a computation.
type Tape = autodiff.Tape

// Operation is a differentiable element-wise transform.
type Operation = autodiff.Operation

// OpBase is embedded by custom operations.
type OpBase = autodiff.OpBase

// Creator names the operation that produced a Variable.
type Creator = autodiff.Creator

// Kind names an operation variant.
type Kind = autodiff.Kind

// Operation kinds.
const (
	KindSquare  = autodiff.KindSquare
	KindExp     = autodiff.KindExp
	KindLog     = autodiff.KindLog
	KindSin     = autodiff.KindSin
	KindCos     = autodiff.KindCos
	KindTanh    = autodiff.KindTanh
	KindSigmoid = autodiff.KindSigmoid
	KindSqrt    = autodiff.KindSqrt
	KindReLU    = autodiff.KindReLU
)

// NewVariable creates a leaf Variable over data. The slice is not copied.
func NewVariable(data []float64) *Variable {
	return autodiff.NewVariable(data)
}

// NewTape creates an empty tape that is recording.
func NewTape() *Tape {
	return autodiff.NewTape()
}

// NewOpBase binds a custom operation to a tape.
func NewOpBase(tape *Tape) OpBase {
	return autodiff.NewOpBase(tape)
}

// Call runs op on x and links the result into the graph.
func Call(op Operation, x *Variable) *Variable {
	return autodiff.Call(op, x)
}

// ParseKind maps an operation name to its Kind.
func ParseKind(name string) (Kind, error) {
	return autodiff.ParseKind(name)
}

// New creates the operation registered under name, bound to tape.
func New(name string, tape *Tape) (Operation, error) {
	return ops.New(name, tape)
}

// Names returns the registered operation names.
func Names() []string {
	return ops.Names()
}

// Built-in operations.
type (
	Square  = ops.Square
	Exp     = ops.Exp
	Log     = ops.Log
	Sin     = ops.Sin
	Cos     = ops.Cos
	Tanh    = ops.Tanh
	Sigmoid = ops.Sigmoid
	Sqrt    = ops.Sqrt
	ReLU    = ops.ReLU
)

// NewSquare creates y = x^2.
func NewSquare(tape *Tape) *Square { return ops.NewSquare(tape) }

// NewExp creates y = e^x.
func NewExp(tape *Tape) *Exp { return ops.NewExp(tape) }

// NewLog creates y = ln x.
func NewLog(tape *Tape) *Log { return ops.NewLog(tape) }

// NewSin creates y = sin x.
func NewSin(tape *Tape) *Sin { return ops.NewSin(tape) }

// NewCos creates y = cos x.
func NewCos(tape *Tape) *Cos { return ops.NewCos(tape) }

// NewTanh creates y = tanh x.
func NewTanh(tape *Tape) *Tanh { return ops.NewTanh(tape) }

// NewSigmoid creates y = 1/(1+e^-x).
func NewSigmoid(tape *Tape) *Sigmoid { return ops.NewSigmoid(tape) }

// NewSqrt creates y = sqrt x.
func NewSqrt(tape *Tape) *Sqrt { return ops.NewSqrt(tape) }

// NewReLU creates y = max(0, x).
func NewReLU(tape *Tape) *ReLU { return ops.NewReLU(tape) }
