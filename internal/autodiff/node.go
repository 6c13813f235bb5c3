package autodiff

import (
	"github.com/born-ml/dyngraph/internal/autodiff/ops"
	"github.com/born-ml/dyngraph/internal/tensor"
)

// Node binds one operator instance to the concrete tensors it consumed and
// produced. It is the parent of its outputs.
//
// A Node performs no shape inference of its own; the operator validates.
type Node struct {
	op      ops.Operation
	inputs  []*tensor.Tensor
	outputs []*tensor.Tensor
}

// NewNode creates a node without running it.
func NewNode(op ops.Operation, inputs, outputs []*tensor.Tensor) *Node {
	return &Node{
		op:      op,
		inputs:  inputs,
		outputs: outputs,
	}
}

// Op returns the operator instance.
func (n *Node) Op() ops.Operation {
	return n.op
}

// Name returns the operator name.
func (n *Node) Name() string {
	return n.op.Name()
}

// Inputs returns the consumed tensors.
func (n *Node) Inputs() []*tensor.Tensor {
	return n.inputs
}

// Outputs returns the produced tensors.
func (n *Node) Outputs() []*tensor.Tensor {
	return n.outputs
}

// Forward runs the operator's forward computation.
// Inputs are borrowed for reading and outputs for writing.
func (n *Node) Forward() {
	release := borrowAll(n.inputs, n.outputs)
	defer release()
	n.op.Forward(n.inputs, n.outputs)
}

// Backward runs the operator's backward computation.
// Outputs are borrowed for reading and inputs for writing.
func (n *Node) Backward() {
	release := borrowAll(n.outputs, n.inputs)
	defer release()
	n.op.Backward(n.inputs, n.outputs)
}

// borrowAll takes one write borrow per distinct tensor in writes and one
// read borrow per distinct tensor in reads. A tensor present in both panics
// with tensor.ErrBorrowConflict; borrows already taken are released first.
func borrowAll(reads, writes []*tensor.Tensor) (release func()) {
	releases := make([]func(), 0, len(reads)+len(writes))
	release = func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	acquired := false
	defer func() {
		if !acquired {
			release()
		}
	}()

	written := make(map[*tensor.Tensor]bool, len(writes))
	for _, t := range writes {
		if written[t] {
			continue
		}
		written[t] = true
		releases = append(releases, t.BorrowMut())
	}

	read := make(map[*tensor.Tensor]bool, len(reads))
	for _, t := range reads {
		if read[t] {
			continue
		}
		read[t] = true
		releases = append(releases, t.Borrow())
	}

	acquired = true
	return release
}
