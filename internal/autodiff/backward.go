package autodiff

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// Backward computes the gradient of every ancestor of v that is still reachable
// through live creator tags.
//
// The caller must seed v.Grad first; it has to be element-aligned with v.Data,
// otherwise Backward panics before touching the graph.
//
// Algorithm:
//  1. Push v on a stack
//  2. Pop a Variable; leaves end their branch
//  3. Resolve its creator; a dangling producer ends the branch
//  4. input.Grad = op.Backward(current.Grad), then push input
//  5. Stop when the stack is empty
//
// Gradients are overwritten, not summed. That is exact for chains where each
// Variable feeds a single operation; with several consumers the last write wins.
// Calling Backward twice on one graph re-overwrites; clear the Grad fields first
// if a fresh pass is wanted.
func (v *Variable) Backward() {
	backward(v, nil)
}

// backward runs the traversal; visit, when non-nil, sees every popped Variable.
func backward(root *Variable, visit func(*Variable)) {
	if len(root.Grad) != len(root.Data) {
		exceptions.Panicf("Variable.Backward: seed gradient has %d elements, data has %d", len(root.Grad), len(root.Data))
	}

	stack := []*Variable{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visit != nil {
			visit(current)
		}

		creator := current.Creator()
		if creator == nil {
			continue
		}
		op, ok := creator.Resolve()
		if !ok {
			klog.V(2).Infof("backward: producer %s (slot %d) no longer exists, branch ends", creator.kind, creator.slot)
			continue
		}

		input := op.Input()
		if input == nil {
			continue
		}
		gx := op.Backward(current.Grad)
		if len(gx) != len(input.Data) {
			exceptions.Panicf("%s.Backward: returned %d gradient elements for an input of %d", op.Kind(), len(gx), len(input.Data))
		}
		klog.V(2).Infof("backward: %s -> input of %d elements", op.Kind(), len(gx))
		input.Grad = gx
		stack = append(stack, input)
	}
}
