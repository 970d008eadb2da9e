package autodiff

import "fmt"

// Variable is a node of the computation graph.
//
// Data holds the flattened payload. Grad is nil until the caller seeds it or a
// backward pass computes it, and is always element-aligned with Data. A
// Variable without a creator is a leaf.
type Variable struct {
	Data []float64
	Grad []float64

	creator *Creator
}

// NewVariable creates a leaf Variable over data. The slice is not copied.
func NewVariable(data []float64) *Variable {
	return &Variable{Data: data}
}

// SetCreator tags v with the operation that produced it.
// Call does this exactly once per output; setting it again overwrites the tag.
func (v *Variable) SetCreator(c *Creator) {
	v.creator = c
}

// Creator returns the tag of the producing operation, or nil for a leaf.
func (v *Variable) Creator() *Creator {
	return v.creator
}

// IsLeaf reports whether v was supplied externally rather than produced by Call.
func (v *Variable) IsLeaf() bool {
	return v.creator == nil
}

// Len returns the number of elements in Data.
func (v *Variable) Len() int {
	return len(v.Data)
}

// ClearGrad drops the gradient so a later backward pass starts from scratch.
func (v *Variable) ClearGrad() {
	v.Grad = nil
}

// String implements fmt.Stringer.
func (v *Variable) String() string {
	kind := "leaf"
	if v.creator != nil {
		kind = v.creator.Kind().String()
	}
	return fmt.Sprintf("Variable(%s, data=%v, grad=%v)", kind, v.Data, v.Grad)
}
