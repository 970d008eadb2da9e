// Package autodiff implements dynamic reverse-mode automatic differentiation.
//
// The computation graph is recorded while operations run. Every Call on an
// Operation produces a new Variable tagged with a Creator that points back to
// the operation through the Tape that owns it:
//
//	leaf Variable -> Operation.Call -> output Variable -> ... -> final Variable
//
// Gradients flow the other way. The caller seeds the final Variable's Grad and
// invokes Backward, which walks creator links with an explicit stack and stores
// each ancestor's gradient.
//
// Ownership:
//   - Tape is the arena. It holds the only strong reference to each recorded
//     Operation, one slot per Call.
//   - An Operation holds the input and output Variables of its last Call.
//   - A Creator tag holds (tape, slot, epoch). It never owns the Operation, so
//     resolving it fails once the slot was released or the tape cleared.
//
// Usage:
//
//	tape := autodiff.NewTape()
//	x := autodiff.NewVariable([]float64{0.5})
//	a := ops.NewSquare(tape).Call(x)
//	b := ops.NewExp(tape).Call(a)
//	y := ops.NewSquare(tape).Call(b)
//	y.Grad = []float64{1}
//	y.Backward()
//	fmt.Println(x.Grad) // ~[3.297442]
//	tape.Clear()
//
// Neither Tape nor Variable is safe for concurrent use.
package autodiff
