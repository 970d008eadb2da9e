package autodiff

import "github.com/gomlx/exceptions"

// Operation is a differentiable, single-input, shape-preserving, element-local
// transform.
//
// Forward must be a pure function of x. Backward maps the gradient of the last
// output to the gradient of the last input, using the input remembered by Call.
// Input/Output/SetInput/SetOutput are the per-call bookkeeping, and Tape is the
// arena that records the operation when Call asks for its creator tag.
//
// Concrete operations embed OpBase and override Kind, Forward and Backward.
type Operation interface {
	Kind() Kind
	Forward(x []float64) []float64
	Backward(gy []float64) []float64

	Input() *Variable
	Output() *Variable
	SetInput(x *Variable)
	SetOutput(y *Variable)
	Tape() *Tape
}

// OpBase carries the state every operation needs: the tape it records into and
// the Variables of its most recent Call.
//
// The Kind, Forward and Backward hooks panic. An operation that forgets to
// supply one fails at the first use instead of computing garbage.
type OpBase struct {
	tape   *Tape
	input  *Variable
	output *Variable
}

// NewOpBase binds an operation to the tape that will own it.
func NewOpBase(tape *Tape) OpBase {
	return OpBase{tape: tape}
}

// Kind reports KindUnknown; concrete operations override it.
func (b *OpBase) Kind() Kind { return KindUnknown }

// Forward panics: concrete operations override it.
func (b *OpBase) Forward([]float64) []float64 {
	exceptions.Panicf("forward not implemented")
	return nil
}

// Backward panics: concrete operations override it.
func (b *OpBase) Backward([]float64) []float64 {
	exceptions.Panicf("backward not implemented")
	return nil
}

// Input returns the Variable passed to the last Call, or nil.
func (b *OpBase) Input() *Variable { return b.input }

// Output returns the Variable produced by the last Call, or nil.
func (b *OpBase) Output() *Variable { return b.output }

// SetInput remembers the input of the current Call.
func (b *OpBase) SetInput(x *Variable) { b.input = x }

// SetOutput remembers the output of the current Call.
func (b *OpBase) SetOutput(y *Variable) { b.output = y }

// Tape returns the tape the operation records into.
func (b *OpBase) Tape() *Tape { return b.tape }

// Call runs op forward on x and links the result into the graph:
//  1. y = Forward(x)
//  2. the operation remembers x
//  3. the operation remembers y
//  4. y is tagged with the creator returned by GetCreator
//
// A second Call on the same instance overwrites the remembered input and
// output. Outputs of earlier calls keep their data and tag, but backward
// through them then sees the newer input.
//
// When the tape is not recording, y is returned as a leaf and op remembers
// nothing.
func Call(op Operation, x *Variable) *Variable {
	y := NewVariable(op.Forward(x.Data))
	if len(y.Data) != len(x.Data) {
		exceptions.Panicf("%s.Forward: produced %d elements from an input of %d", op.Kind(), len(y.Data), len(x.Data))
	}

	tape := op.Tape()
	if tape != nil && !tape.IsRecording() {
		return y
	}

	op.SetInput(x)
	op.SetOutput(y)
	y.SetCreator(GetCreator(op))
	return y
}

// GetCreator records op in its tape and returns the tag naming it.
// The tape keeps op reachable; the tag only indexes into the tape.
func GetCreator(op Operation) *Creator {
	if !op.Kind().Valid() {
		exceptions.Panicf("creator lookup not implemented: operation kind is %s", op.Kind())
	}
	tape := op.Tape()
	if tape == nil {
		exceptions.Panicf("creator lookup not implemented: %s operation is not bound to a tape", op.Kind())
	}
	return tape.Record(op)
}
