package autodiff

import "k8s.io/klog/v2"

// Tape is the arena that owns the operations of a computation graph.
//
// Each Call records its operation in a new slot and tags the output with the
// slot index. Release drops a single slot and Clear drops all of them; tags
// pointing at dropped slots then fail to resolve, which the backward pass
// treats as the end of that branch.
//
// Usage:
//
//	tape := NewTape()
//	// ... build the graph, seed, Backward ...
//	tape.Clear() // one tape per computation, dropped as a unit
type Tape struct {
	operations []Operation // Recorded operations, nil once released
	live       int         // Number of non-nil slots
	epoch      uint64      // Bumped by Clear; stale tags carry an older value
	recording  bool        // Whether Call links outputs into the graph
}

// NewTape creates an empty tape that is recording.
func NewTape() *Tape {
	return &Tape{
		operations: make([]Operation, 0, 16),
		recording:  true,
	}
}

// StartRecording makes Call link its outputs into the graph.
func (t *Tape) StartRecording() {
	t.recording = true
}

// StopRecording makes Call return untagged outputs. Useful for inference, where
// no backward pass follows.
func (t *Tape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *Tape) IsRecording() bool {
	return t.recording
}

// Record stores op in a new slot and returns the tag naming it.
func (t *Tape) Record(op Operation) *Creator {
	slot := len(t.operations)
	t.operations = append(t.operations, op)
	t.live++
	klog.V(3).Infof("tape: recorded %s in slot %d (epoch %d)", op.Kind(), slot, t.epoch)
	return &Creator{
		kind:  op.Kind(),
		tape:  t,
		slot:  slot,
		epoch: t.epoch,
	}
}

// Release drops the tape's reference to the operation named by c.
// It reports whether a live slot was released.
func (t *Tape) Release(c *Creator) bool {
	if c == nil || c.tape != t || c.epoch != t.epoch {
		return false
	}
	if c.slot < 0 || c.slot >= len(t.operations) || t.operations[c.slot] == nil {
		return false
	}
	t.operations[c.slot] = nil
	t.live--
	klog.V(3).Infof("tape: released %s in slot %d", c.kind, c.slot)
	return true
}

// Clear drops every recorded operation. Tags issued before Clear never resolve
// again, even after new operations fill the same slots.
// Recording state is preserved.
func (t *Tape) Clear() {
	clear(t.operations)
	t.operations = t.operations[:0]
	t.live = 0
	t.epoch++
	klog.V(3).Infof("tape: cleared, epoch is now %d", t.epoch)
}

// NumOps returns the number of operations the tape still holds.
func (t *Tape) NumOps() int {
	return t.live
}

func (t *Tape) resolve(c *Creator) (Operation, bool) {
	if c.epoch != t.epoch || c.slot < 0 || c.slot >= len(t.operations) {
		return nil, false
	}
	op := t.operations[c.slot]
	if op == nil || op.Kind() != c.kind {
		return nil, false
	}
	return op, true
}
